package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/invoice-ledger/internal/editor"
	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/rs/zerolog"
)

// exportBaseName is the download name without extension.
const exportBaseName = "invoice-items"

// RowView is a row as the API presents it, with the derived text color.
type RowView struct {
	ledger.Row
	TextColor string `json:"textColor"`
}

func viewOf(row ledger.Row) RowView {
	return RowView{Row: row, TextColor: row.TextColor()}
}

func viewsOf(rows []ledger.Row) []RowView {
	views := make([]RowView, len(rows))
	for i, row := range rows {
		views[i] = viewOf(row)
	}
	return views
}

// LedgerHandler serves the row, totals and import/export endpoints.
type LedgerHandler struct {
	session *editor.Session
	save    func() error
	log     zerolog.Logger
}

// NewLedgerHandler creates a handler. save runs after every mutating request
// that changed the ledger; nil disables it.
func NewLedgerHandler(session *editor.Session, save func() error, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{session: session, save: save, log: log}
}

// persist runs the autosave hook. A failed save is logged and does not fail
// the request, which has already been applied.
func (h *LedgerHandler) persist(c *gin.Context, outcome ledger.Outcome) {
	if h.save == nil || outcome != ledger.Applied {
		return
	}
	if err := h.save(); err != nil {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("autosave failed")
	}
}

// =============================================================================
// ROWS
// =============================================================================

// ListRows returns every row and the totals.
func (h *LedgerHandler) ListRows(c *gin.Context) {
	snap := h.session.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"rows":   viewsOf(snap.Rows),
		"totals": snap.Totals,
	})
}

// CreateRow appends a defaulted row.
func (h *LedgerHandler) CreateRow(c *gin.Context) {
	row := h.session.AddRow()
	h.persist(c, ledger.Applied)
	c.JSON(http.StatusCreated, viewOf(row))
}

// UpdateRow sets one field from {"field","value"}.
func (h *LedgerHandler) UpdateRow(c *gin.Context) {
	var payload struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	id := c.Param("id")
	outcome, err := h.session.UpdateField(id, payload.Field, payload.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.persist(c, outcome)

	h.respondOutcome(c, id, outcome)
}

// DeleteRow removes a row.
func (h *LedgerHandler) DeleteRow(c *gin.Context) {
	outcome := h.session.DeleteRow(c.Param("id"))
	h.persist(c, outcome)
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

// SetRowColor changes a row's background color from {"color"}.
func (h *LedgerHandler) SetRowColor(c *gin.Context) {
	var payload struct {
		Color string `json:"color" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	id := c.Param("id")
	outcome := h.session.SetRowColor(id, payload.Color)
	h.persist(c, outcome)

	h.respondOutcome(c, id, outcome)
}

// MoveRow moves a row by {"toIndex"} or {"beforeId"}.
func (h *LedgerHandler) MoveRow(c *gin.Context) {
	var payload struct {
		ToIndex  *int   `json:"toIndex"`
		BeforeID string `json:"beforeId"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	id := c.Param("id")
	var outcome ledger.Outcome
	switch {
	case payload.BeforeID != "":
		outcome = h.session.MoveBefore(id, payload.BeforeID)
	case payload.ToIndex != nil:
		outcome = h.session.Move(id, *payload.ToIndex)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "toIndex or beforeId is required"})
		return
	}
	h.persist(c, outcome)

	c.JSON(http.StatusOK, gin.H{
		"outcome": outcome,
		"rows":    viewsOf(h.session.Rows()),
	})
}

// ReorderRows installs the order given as {"ids":[...]}.
func (h *LedgerHandler) ReorderRows(c *gin.Context) {
	var payload struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.IDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	rows := h.session.ReorderIDs(payload.IDs)
	h.persist(c, ledger.Applied)

	c.JSON(http.StatusOK, gin.H{"rows": viewsOf(rows)})
}

func (h *LedgerHandler) respondOutcome(c *gin.Context, id string, outcome ledger.Outcome) {
	body := gin.H{"outcome": outcome}
	if row, ok := h.session.Row(id); ok {
		body["row"] = viewOf(row)
	}
	c.JSON(http.StatusOK, body)
}

// =============================================================================
// TOTALS
// =============================================================================

// GetTotals returns the column sums.
func (h *LedgerHandler) GetTotals(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Totals())
}

// =============================================================================
// IMPORT / EXPORT
// =============================================================================

// Export downloads the ledger as csv (default), xlsx or xml.
func (h *LedgerHandler) Export(c *gin.Context) {
	format, err := editor.ParseFormat(c.DefaultQuery("format", string(editor.FormatCSV)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.session.Export(&buf, format); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportBaseName+format.Extension()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Import replaces the ledger with an uploaded file. The file comes from the
// multipart field "file" or the raw request body. The format is taken from
// ?format=, then the uploaded file name, then defaults to csv.
func (h *LedgerHandler) Import(c *gin.Context) {
	var body io.Reader = c.Request.Body
	name := ""

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
			return
		}
		defer file.Close()
		body = file
		name = header.Filename
	}

	format, err := importFormat(c.Query("format"), name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.session.Import(c.Request.Context(), body, format)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	h.persist(c, ledger.Applied)

	snap := h.session.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"imported": count,
		"rows":     viewsOf(snap.Rows),
		"totals":   snap.Totals,
	})
}

// importFormat resolves the upload format. Formats that cannot be read,
// such as xml, are rejected before the body is touched.
func importFormat(query, fileName string) (editor.Format, error) {
	format := editor.FormatCSV
	if query != "" {
		parsed, err := editor.ParseFormat(query)
		if err != nil {
			return "", err
		}
		format = parsed
	} else if parsed, err := editor.ParseFormat(filepath.Ext(fileName)); err == nil {
		format = parsed
	}

	if !format.Importable() {
		return "", fmt.Errorf("%w: cannot import %s", editor.ErrUnknownFormat, format)
	}
	return format, nil
}
