package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// ErrNoData is returned when a source yields no bytes.
var ErrNoData = errors.New("no data provided")

// ClassifyFormat decides the parse path for an upload: Markdown when the file
// name ends in .md/.markdown or the MIME type is text/markdown, PDF otherwise.
// With neither hint it falls back to sniffing the content.
func ClassifyFormat(filename, mimeType string, data []byte) models.SourceFormat {
	ext := strings.ToLower(path.Ext(filename))
	if ext == ".md" || ext == ".markdown" {
		return models.FormatMarkdown
	}
	if mimeType != "" {
		if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
			mimeType = mediaType
		}
		if strings.EqualFold(mimeType, "text/markdown") || strings.EqualFold(mimeType, "text/x-markdown") {
			return models.FormatMarkdown
		}
	}
	if filename != "" || mimeType != "" {
		return models.FormatPDF
	}
	return DetectFormat(data)
}

// DetectFormat sniffs the content: %PDF magic means PDF, readable text means
// Markdown, anything else is treated as PDF.
func DetectFormat(data []byte) models.SourceFormat {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return models.FormatPDF
	}
	if isLikelyText(data) {
		return models.FormatMarkdown
	}
	return models.FormatPDF
}

// isLikelyText checks if the data is likely plain text (no binary content)
func isLikelyText(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sample := data[:min(len(data), 512)]
	if bytes.Contains(sample, []byte{0}) {
		return false
	}

	printable := 0
	for _, b := range sample {
		if (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b >= 0x80 {
			printable++
		}
	}
	return float64(printable)/float64(len(sample)) > 0.9
}

// GetData retrieves an assessment file from Zotero or a URL.
func GetData(ctx context.Context, sourceInfo models.SourceInfo, zoteroAPIKey, zoteroLibraryID string) (models.DocumentData, error) {
	var doc models.DocumentData
	var err error

	switch {
	case sourceInfo.ZoteroID != "":
		doc, err = GetFromZotero(ctx, sourceInfo.ZoteroID, zoteroAPIKey, zoteroLibraryID)
	case sourceInfo.URL != "":
		doc, err = GetFromURL(ctx, sourceInfo.URL)
	default:
		return models.DocumentData{}, ErrNoData
	}
	if err != nil {
		return models.DocumentData{}, err
	}
	if len(doc.Data) == 0 {
		return models.DocumentData{}, fmt.Errorf("%w: source returned an empty file", ErrNoData)
	}

	// Caller-supplied hints win over whatever the source reported.
	if sourceInfo.Filename != "" {
		doc.Filename = sourceInfo.Filename
	}
	if sourceInfo.MIMEType != "" {
		doc.MIMEType = sourceInfo.MIMEType
	}
	return doc, nil
}

// GetFromURL fetches a file over HTTP(S).
func GetFromURL(ctx context.Context, url string) (models.DocumentData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.DocumentData{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return models.DocumentData{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.DocumentData{}, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.DocumentData{}, fmt.Errorf("fetch %s: %w", url, err)
	}

	return models.DocumentData{
		Data:     data,
		Filename: urlFilename(req.URL.Path),
		MIMEType: resp.Header.Get("Content-Type"),
	}, nil
}

// urlFilename is the last path segment, or "" when the path names no file.
func urlFilename(p string) string {
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// GetFromZotero downloads an attachment from a Zotero library. The
// attachment's filename and content type are looked up so the upload can be
// classified.
func GetFromZotero(ctx context.Context, zoteroID string, apiKey string, libraryID string) (models.DocumentData, error) {
	if apiKey == "" || libraryID == "" {
		return models.DocumentData{}, errors.New("ZOTERO_API_KEY and ZOTERO_LIBRARY_ID must be set to fetch from Zotero")
	}
	client := zotero.NewClient(libraryID, zotero.LibraryTypeUser, zotero.WithAPIKey(apiKey))
	data, err := client.File(ctx, zoteroID)
	if err != nil {
		return models.DocumentData{}, fmt.Errorf("failed to download Zotero attachment %s: %w", zoteroID, err)
	}

	doc := models.DocumentData{Data: data}
	if item, err := client.Item(ctx, zoteroID, nil); err == nil && item != nil {
		doc.Filename = item.Data.Filename
		doc.MIMEType = item.Data.ContentType
	}
	return doc, nil
}
