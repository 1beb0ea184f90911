package predict

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rankcet/pkg/utils"
)

type Handler struct {
	Engine  *Engine
	Metrics *Metrics
	Log     *utils.Logger
}

func NewHandler(engine *Engine, metrics *Metrics, logger *utils.Logger) *Handler {
	return &Handler{Engine: engine, Metrics: metrics, Log: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/predict", h.predict) // POST /predict
	rg.GET("/options", h.options)  // GET /options
}

func (h *Handler) predict(c *gin.Context) {
	start := time.Now()

	var body WireRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, newRequestError(ErrMalformedBody, "request body must be a JSON object: %v", err), start)
		return
	}

	req, err := ParseRequest(body)
	if err != nil {
		h.fail(c, err, start)
		return
	}

	predictions, err := h.Engine.Lookup(req)
	if err != nil {
		h.fail(c, err, start)
		return
	}

	h.observe("ok", len(predictions), start)
	resp := gin.H{
		"predictions": predictions,
		"count":       len(predictions),
	}
	if len(predictions) == 0 {
		resp["message"] = "No colleges found for this rank."
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) fail(c *gin.Context, err error, start time.Time) {
	re, ok := AsRequestError(err)
	if !ok {
		h.logError("[predict] unexpected error: %v", err)
		h.observe("internal", 0, start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	h.observe(re.Code, 0, start)
	c.JSON(re.Status, gin.H{"error": re.Message, "code": re.Code})
}

func (h *Handler) observe(outcome string, n int, start time.Time) {
	if h.Metrics != nil {
		h.Metrics.ObserveLookup(outcome, n, time.Since(start))
	}
}

func (h *Handler) logError(format string, args ...any) {
	if h.Log != nil {
		h.Log.Error(format, args...)
	}
}

func (h *Handler) options(c *gin.Context) {
	t := h.Engine.Table()
	if t == nil || t.Empty() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no cutoff data is loaded", "code": CodeNoData})
		return
	}
	c.JSON(http.StatusOK, t.Catalog())
}
