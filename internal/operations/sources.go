package operations

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
)

// SourceSearchParams narrows a search for assessment files in a Zotero library.
type SourceSearchParams struct {
	Query      string   // Quick search text (title, creator, year)
	Tags       []string // Filter by tags
	Collection string   // Filter by collection key (optional)
	Limit      int      // Max items (default 25)
}

// SourceItem is a library item with at least one attachment that can be
// uploaded as an assessment.
type SourceItem struct {
	Key         string             `json:"key"`
	Title       string             `json:"title"`
	ItemType    string             `json:"item_type"`
	DateAdded   string             `json:"date_added,omitempty"`
	Attachments []SourceAttachment `json:"attachments"`
}

// SourceAttachment is a PDF or Markdown file attached to a library item.
type SourceAttachment struct {
	Key         string `json:"key"` // pass as zotero_id to assessment-upload
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
}

// SourceCollection is a Zotero collection that can scope a source search.
type SourceCollection struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

func checkZoteroCredentials(creds SourceCredentials) error {
	if creds.ZoteroAPIKey == "" {
		return errors.New("Zotero API key is required")
	}
	if creds.ZoteroLibraryID == "" {
		return errors.New("Zotero library ID is required")
	}
	return nil
}

// IsSupportedAttachment reports whether an attachment would be parsed as a
// PDF or Markdown assessment.
func IsSupportedAttachment(filename, contentType string) bool {
	switch strings.ToLower(contentType) {
	case "application/pdf", "text/markdown", "text/x-markdown":
		return true
	}
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf", ".md", ".markdown":
		return true
	}
	return false
}

// SearchSources lists library items that carry PDF or Markdown attachments.
// Items without a supported attachment are left out.
func SearchSources(ctx context.Context, creds SourceCredentials, params SourceSearchParams, log logger.Logger) ([]SourceItem, error) {
	if err := checkZoteroCredentials(creds); err != nil {
		return nil, err
	}
	client := zotero.NewClient(creds.ZoteroLibraryID, zotero.LibraryTypeUser, zotero.WithAPIKey(creds.ZoteroAPIKey))

	queryParams := &zotero.QueryParams{
		Q:        params.Query,
		QMode:    "titleCreatorYear",
		Tag:      params.Tags,
		ItemType: []string{"-attachment"},
		Limit:    params.Limit,
		Sort:     "dateModified",
	}
	if queryParams.Limit == 0 {
		queryParams.Limit = 25
	}

	var items []zotero.Item
	var err error
	if params.Collection != "" {
		items, err = client.CollectionItems(ctx, params.Collection, queryParams)
	} else {
		items, err = client.Items(ctx, queryParams)
	}
	if err != nil {
		log.Error("Failed to search Zotero library: %v", err)
		return nil, fmt.Errorf("failed to search Zotero library: %w", err)
	}
	log.Info("Found %d items in Zotero library", len(items))

	results := make([]SourceItem, 0, len(items))
	for _, item := range items {
		if item.Data.ItemType == "attachment" {
			continue
		}

		children, err := client.Children(ctx, item.Key, nil)
		if err != nil {
			log.Warn("Failed to retrieve attachments for item %s: %v", item.Key, err)
			continue
		}

		result := SourceItem{
			Key:       item.Key,
			Title:     item.Data.Title,
			ItemType:  item.Data.ItemType,
			DateAdded: item.Data.DateAdded,
		}
		for _, child := range children {
			if child.Data.ItemType != "attachment" || !IsSupportedAttachment(child.Data.Filename, child.Data.ContentType) {
				continue
			}
			result.Attachments = append(result.Attachments, SourceAttachment{
				Key:         child.Key,
				Filename:    child.Data.Filename,
				ContentType: child.Data.ContentType,
			})
		}
		if len(result.Attachments) > 0 {
			results = append(results, result)
		}
	}

	log.Info("Returning %d items with assessment attachments", len(results))
	return results, nil
}

// ListSourceCollections returns the library's collections, or the
// subcollections of parent when it is set.
func ListSourceCollections(ctx context.Context, creds SourceCredentials, parent string, log logger.Logger) ([]SourceCollection, error) {
	if err := checkZoteroCredentials(creds); err != nil {
		return nil, err
	}
	client := zotero.NewClient(creds.ZoteroLibraryID, zotero.LibraryTypeUser, zotero.WithAPIKey(creds.ZoteroAPIKey))

	queryParams := &zotero.QueryParams{Limit: 100, Sort: "title"}
	var collections []zotero.Collection
	var err error
	if parent != "" {
		collections, err = client.CollectionsSub(ctx, parent, queryParams)
	} else {
		collections, err = client.Collections(ctx, queryParams)
	}
	if err != nil {
		log.Error("Failed to retrieve Zotero collections: %v", err)
		return nil, fmt.Errorf("failed to retrieve Zotero collections: %w", err)
	}

	results := make([]SourceCollection, 0, len(collections))
	for _, c := range collections {
		results = append(results, SourceCollection{
			Key:    c.Data.Key,
			Name:   c.Data.Name,
			Parent: c.Data.ParentCollection.String(),
		})
	}
	return results, nil
}
