package internal

import (
	"blog-bus/contract"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

//go:embed inspect.html
var templatesFS embed.FS

var inspectTemplate = template.Must(template.ParseFS(templatesFS, "inspect.html"))

const defaultInspectPrefix = "post:"

type InspectRow struct {
	Key       string
	Type      string
	EntityID  string
	Namespace string
	Status    string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// NewInspectHandler renders the keys of store under the "prefix" query parameter.
// It is only mounted when the service runs at debug level.
func NewInspectHandler(log *slog.Logger, store contract.Store, mapper RowMapper, statsProvider StatsProvider) http.Handler {
	if mapper == nil {
		mapper = DefaultMapper
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = defaultInspectPrefix
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		err := store.Scan(r.Context(), prefix, func(key string, value []byte) error {
			data.Items = append(data.Items, mapper(key, value))
			return nil
		})
		if err != nil {
			log.Warn("Inspection failed", "prefix", prefix, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := inspectTemplate.Execute(w, data); err != nil {
			log.Warn("Unable to render inspection page", "error", err)
		}
	})
}

// DefaultMapper understands the "post:{id}" and "comment:{postId}:{id}" keys.
func DefaultMapper(key string, val []byte) InspectRow {
	parts := strings.SplitN(key, ":", 3)
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		EntityID:  "--------",
		Namespace: "default",
		Status:    "-",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
	if len(parts) < 2 {
		return row
	}
	row.Type = strings.ToUpper(parts[0])
	row.EntityID = strings.TrimPrefix(key, parts[0]+":")
	if row.Type == "COMMENT" && len(parts) == 3 {
		row.EntityID = parts[2]
		row.Namespace = parts[1]
		if postID, err := url.QueryUnescape(parts[1]); err == nil {
			row.Namespace = postID
		}
	}

	var doc struct {
		Title    string            `json:"title"`
		Content  string            `json:"content"`
		Status   string            `json:"status"`
		Comments []json.RawMessage `json:"comments"`
	}
	if err := json.Unmarshal(val, &doc); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	switch {
	case doc.Title != "":
		row.Detail = doc.Title
		row.Status = strconv.Itoa(len(doc.Comments)) + " comment(s)"
	case doc.Content != "":
		row.Detail = doc.Content
		row.Status = doc.Status
	}
	return row
}
