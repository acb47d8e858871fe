package answerurl

import (
	"bytes"
	"encoding/xml"
)

// The platform's answer XML is TwiML-shaped. Only the bridge primitive is needed.

type bridgeResponse struct {
	XMLName xml.Name   `xml:"Response"`
	Dial    bridgeDial `xml:"Dial"`
}

type bridgeDial struct {
	CallerID string `xml:"callerId,attr"`
	Number   string `xml:"Number"`
}

// emptyResponse is a well-formed document with no verbs.
const emptyResponse = xml.Header + "<Response></Response>"

// RenderBridge builds the answer document that dials destination presenting callerID.
// Text and attribute values are escaped, so the output is well-formed for any input.
func RenderBridge(callerID, destination string) ([]byte, error) {
	r := bridgeResponse{Dial: bridgeDial{CallerID: callerID, Number: destination}}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "    ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
