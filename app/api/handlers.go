package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexlern/briefing/app/briefing"
	"github.com/nexlern/briefing/app/cfg"
	"github.com/nexlern/briefing/app/database"
	"github.com/nexlern/briefing/app/reader"
)

func NewHandler(sourceRepo database.SourceRepository, itemRepo database.ItemRepository,
	runRepo database.RunRepository, configRepo database.ConfigRepository,
	settings *briefing.SettingsLoader, ingestor *briefing.Ingestor,
	extractor *reader.Extractor, httpClient *http.Client) *Handler {
	cfg := cfg.Get()

	return &Handler{
		sourceRepo:   sourceRepo,
		itemRepo:     itemRepo,
		runRepo:      runRepo,
		configRepo:   configRepo,
		settings:     settings,
		ingestor:     ingestor,
		extractor:    extractor,
		httpClient:   httpClient,
		userAgent:    cfg.UserAgent,
		fetchTimeout: time.Duration(cfg.FetchTimeout) * time.Second,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}
	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		health["items"] = itemCount
	}
	if last, err := h.runRepo.GetLastSuccessfulRun(); err == nil && last != nil && last.FinishedAt != nil {
		health["last_successful_run"] = last.FinishedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

// APIRunNow executes an ingestion run synchronously, bypassing the cadence
// gate. Per-source failures are enumerated in the response body; the call
// itself still returns 200 so partial success is distinguishable from an
// outage.
func (h *Handler) APIRunNow(c *gin.Context) {
	summary, err := h.ingestor.RunOnce(c.Request.Context())
	if err != nil {
		slog.Error("Manual run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Run failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) APIListRuns(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 20)

	runs, err := h.runRepo.GetRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, toRunResponse(run))
	}

	c.JSON(http.StatusOK, gin.H{"runs": responses, "total": len(responses)})
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources, err := h.sourceRepo.GetSources()
	if err != nil {
		slog.Error("Database error", "operation", "get_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]sourceResponse, 0, len(sources))
	for _, source := range sources {
		responses = append(responses, toSourceResponse(source))
	}

	c.JSON(http.StatusOK, gin.H{"sources": responses, "total": len(responses)})
}

func (h *Handler) APICreateSource(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := briefing.ValidateSourceURL(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source URL", "details": err.Error()})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	source, err := h.sourceRepo.CreateSource(req.Name, req.URL, req.CategoryHint, enabled)
	if err != nil {
		slog.Error("Database error", "operation", "create_source", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, toSourceResponse(*source))
}

func (h *Handler) APIUpdateSource(c *gin.Context) {
	id := c.Param("id")

	var req sourcePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.URL != nil {
		if err := briefing.ValidateSourceURL(*req.URL); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source URL", "details": err.Error()})
			return
		}
	}

	source, err := h.sourceRepo.UpdateSource(id, database.SourceUpdate{
		Name:         req.Name,
		URL:          req.URL,
		CategoryHint: req.CategoryHint,
		Enabled:      req.Enabled,
	})
	if err != nil {
		slog.Error("Database error", "operation", "update_source", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if source == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	c.JSON(http.StatusOK, toSourceResponse(*source))
}

func (h *Handler) APIGetConfig(c *gin.Context) {
	values, err := h.configRepo.GetAll()
	if err != nil {
		slog.Error("Database error", "operation", "get_config", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": values})
}

func (h *Handler) APIPutConfig(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	for key, value := range values {
		if err := h.configRepo.Set(key, value); err != nil {
			slog.Error("Database error", "operation", "set_config", "key", key, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"updated": len(values)})
}

func (h *Handler) GetItems(c *gin.Context) {
	settings := h.settings.Load()
	limit := parseLimit(c.Query("limit"), settings.ItemsPerPage)

	items, err := h.itemRepo.GetPublishedItems(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]itemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toItemResponse(item))
	}

	c.JSON(http.StatusOK, gin.H{"items": responses, "total": len(responses)})
}

func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.itemRepo.GetItem(c.Param("id"))
	if err != nil {
		slog.Error("Database error", "operation", "get_item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, toItemResponse(*item))
}

// Extract fetches an arbitrary page and returns extracted content plus the
// chosen rendering tier. Extraction shortfalls degrade to a lower tier;
// this endpoint never hard-fails on "couldn't extract content".
func (h *Handler) Extract(c *gin.Context) {
	pageURL := c.Query("url")
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter"})
		return
	}
	if err := briefing.ValidateSourceURL(pageURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid url parameter", "details": err.Error()})
		return
	}

	data, header, err := h.fetchPage(c, pageURL)
	if err != nil {
		slog.Debug("Page fetch failed, degrading to excerpt tier", "url", pageURL, "error", err)
		c.JSON(http.StatusOK, extractResponse{
			Content:    nil,
			Embeddable: false,
			Tier:       reader.TierExcerpt,
		})
		return
	}

	embeddable := reader.Embeddable(header)

	content, err := h.extractor.Run(data, pageURL)
	if err != nil {
		slog.Debug("Extraction failed, degrading", "url", pageURL, "error", err)
		content = nil
	}

	response := extractResponse{
		Content:    content,
		Embeddable: embeddable,
		Tier:       reader.SelectTier(content, embeddable),
	}
	if content != nil {
		response.Excerpt = briefing.Summarize(content.BodyText, "")
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) fetchPage(c *gin.Context, pageURL string) ([]byte, http.Header, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &httpStatusError{status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	return data, resp.Header, nil
}

type httpStatusError struct {
	status string
}

func (e *httpStatusError) Error() string {
	return "HTTP error: " + e.status
}

func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}

	return limit
}
