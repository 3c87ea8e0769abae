package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/model"
)

// snippetLimit keeps page bodies well under Notion's rich text cap.
const snippetLimit = 1900

// ExportRun creates one database page per selected result of a run and
// returns the created page IDs. The run's errors list does not block
// the export.
func ExportRun(ctx context.Context, client Client, databaseID string, rec *model.RunRecord) ([]string, error) {
	pageIDs := make([]string, 0, len(rec.SelectedResults))

	for _, item := range rec.SelectedResults {
		req := buildPageRequest(databaseID, rec.ID, item)
		page, err := client.CreatePage(ctx, req)
		if err != nil {
			return pageIDs, eris.Wrapf(err, "notion: export item %s", item.ID)
		}
		pageIDs = append(pageIDs, string(page.ID))
	}

	zap.L().Info("notion: run exported",
		zap.String("run_id", rec.ID),
		zap.Int("pages", len(pageIDs)),
	)
	return pageIDs, nil
}

func buildPageRequest(databaseID, runID string, item model.ContentItem) *notionapi.PageCreateRequest {
	title := item.Title
	if title == "" {
		title = item.URL
	}

	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: title}}},
		},
		"URL": notionapi.URLProperty{
			URL: item.URL,
		},
		"Source": notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(item.Source)},
		},
		"Score": notionapi.NumberProperty{
			Number: item.RelevanceScore,
		},
		"Run": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: runID}}},
		},
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: props,
	}

	if snippet := truncate(item.ExtractedText, snippetLimit); snippet != "" {
		req.Children = []notionapi.Block{
			&notionapi.ParagraphBlock{
				BasicBlock: notionapi.BasicBlock{
					Object: notionapi.ObjectTypeBlock,
					Type:   notionapi.BlockTypeParagraph,
				},
				Paragraph: notionapi.Paragraph{
					RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: snippet}}},
				},
			},
		}
	}
	return req
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
