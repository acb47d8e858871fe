package answerurl

import (
	"net/http"

	"vobiz-console/pkg/logger"

	"github.com/gin-gonic/gin"
)

const contentTypeXML = "text/xml"

// Responder answers the voice platform's Answer URL webhook with a bridge directive.
//
// It is stateless: the same query always yields the same document, and concurrent
// requests share nothing but read-only configuration and the metrics counters.
// Every request gets 200 with an XML body; bad input degrades to the default destination.
type Responder struct {
	CallerID           string
	DefaultDestination string

	Metrics *Metrics
}

// Answer resolves the destination from the request query and renders the document.
func (r Responder) Answer(req *http.Request) (Resolution, []byte, error) {
	res := ResolveDestination(req.URL.Query(), r.DefaultDestination)
	body, err := RenderBridge(r.CallerID, res.Destination)
	return res, body, err
}

// Handle is the gin handler. It is mounted for every method and path.
func (r Responder) Handle(c *gin.Context) {
	log := logger.FromGin(c)
	log.Info("answer url request", "method", c.Request.Method, "url", c.Request.URL.String())

	res, body, err := r.Answer(c.Request)
	if err != nil {
		// Unreachable for string fields; keep the status contract anyway.
		log.Error("bridge render failed", "err", err)
		_ = c.Error(err)
		c.Data(http.StatusOK, contentTypeXML, []byte(emptyResponse))
		return
	}

	if res.Source == SourceDefault {
		log.Info("no destination parameter, using default", "destination", res.Destination)
	}
	r.Metrics.observe(res)

	c.Data(http.StatusOK, contentTypeXML, body)
	log.Info("returned bridge", "destination", res.Destination, "source", res.Source, "sip_normalized", res.Normalized)
}
