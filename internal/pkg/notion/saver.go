package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/pkg/errors"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
	"github.com/aurimasl/voxpense/internal/pkg/record"
)

// Saver writes finalized records into a notion database
type Saver struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
}

// NewSaver creates Saver
func NewSaver(apiKey string, databaseID string) (*Saver, error) {
	if apiKey == "" {
		return nil, errors.New("No notion API key provided")
	}
	if databaseID == "" {
		return nil, errors.New("No notion database ID provided")
	}
	return &Saver{client: notionapi.NewClient(notionapi.Token(apiKey)),
		databaseID: notionapi.DatabaseID(databaseID)}, nil
}

// Save creates one page with the record properties and the summary as a note block.
// An error here is a reported outcome, the caller must treat it as
// a save failure, not as a crash condition
func (s *Saver) Save(ctx context.Context, rec record.Record) error {
	req, err := newPageRequest(s.databaseID, rec)
	if err != nil {
		return errors.Wrap(err, "Can't prepare page request")
	}
	page, err := s.client.Page.Create(ctx, req)
	if err != nil {
		return errors.Wrap(err, "Can't create page")
	}
	cmdapp.Log.Infof("Created page %s", page.ID)
	return nil
}

// newPageRequest maps the record to the fixed database schema:
// item - title, amount - number, category - select, date - date,
// summary goes below the properties as a paragraph block
func newPageRequest(dbID notionapi.DatabaseID, rec record.Record) (*notionapi.PageCreateRequest, error) {
	d, err := time.Parse(record.DateLayout, rec.Date)
	if err != nil {
		return nil, errors.Wrap(err, "Wrong date "+rec.Date)
	}
	date := notionapi.Date(d)
	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{Type: notionapi.ParentTypeDatabaseID, DatabaseID: dbID},
		Properties: notionapi.Properties{
			"Item": notionapi.TitleProperty{
				Title: []notionapi.RichText{{Text: &notionapi.Text{Content: rec.Item}}}},
			"Amount": notionapi.NumberProperty{Number: rec.Amount},
			"Category": notionapi.SelectProperty{
				Select: notionapi.Option{Name: rec.Category}},
			"Date": notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &date}},
		},
		Children: []notionapi.Block{
			notionapi.ParagraphBlock{
				BasicBlock: notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock,
					Type: notionapi.BlockTypeParagraph},
				Paragraph: notionapi.Paragraph{
					RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: rec.Summary}}}},
			},
		},
	}, nil
}
