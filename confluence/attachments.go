package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// NewAttachment returns an attachment that doesn't exist on Confluence yet.
func (api *API) NewAttachment(name, contentType, comment string) *Attachment {
	a := &Attachment{
		Type:  AttachmentContent.String(),
		Title: name,
	}
	a.Metadata.MediaType = contentType
	a.Metadata.Comment = comment
	return a
}

// GetAttachment finds the attachment called name on the page pageID.  A version of 0 asks for the
// latest one; any other version must match.
func (api *API) GetAttachment(ctx context.Context, pageID, name string, version int) (*Attachment, error) {
	ep, err := api.getAttachmentsEndpoint(AttachmentQuery{
		PageID:   pageID,
		Filename: name,
		Expand:   []string{"version"},
	})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get attachments endpoint: %w", err)
	}

	var attachments MultiAttachmentResponse
	if err := api.getJSON(ctx, ep, &attachments); err != nil {
		return nil, err
	}

	for i := range attachments.Results {
		a := &attachments.Results[i]
		if a.Title != name {
			continue
		}
		if version != 0 && (a.Version == nil || a.Version.Number != version) {
			continue
		}
		return a, nil
	}
	return nil, fmt.Errorf("confluence: attachment %q on page %s: %w", name, pageID, ErrNotFound)
}

// AddAttachment uploads data as the content of attachment on page.  An attachment that already
// exists (it has an ID) gets a new version; otherwise it is created.
func (api *API) AddAttachment(ctx context.Context, page *Page, attachment *Attachment, data io.Reader) (*Attachment, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(attachment.FileName())))
	contentType := attachment.Metadata.MediaType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't create upload form: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("confluence: couldn't read attachment %q: %w", attachment.FileName(), err)
	}
	if attachment.Metadata.Comment != "" {
		if err := form.WriteField("comment", attachment.Metadata.Comment); err != nil {
			return nil, fmt.Errorf("confluence: couldn't create upload form: %w", err)
		}
	}
	if err := form.WriteField("minorEdit", "true"); err != nil {
		return nil, fmt.Errorf("confluence: couldn't create upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("confluence: couldn't create upload form: %w", err)
	}

	ep, err := api.getAttachmentsEndpoint(AttachmentQuery{PageID: page.ID})
	if attachment.ID != "" {
		ep, err = api.getAttachmentDataEndpoint(page.ID, attachment.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get attachments endpoint: %w", err)
	}

	resp, err := api.request(ctx, http.MethodPost, ep, body.Bytes(), form.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't upload attachment %q: %w", attachment.FileName(), err)
	}

	// creating answers with a listing, updating with the attachment itself
	stored, err := decodeAttachment(resp)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func decodeAttachment(body []byte) (*Attachment, error) {
	var listing MultiAttachmentResponse
	if err := json.Unmarshal(body, &listing); err == nil && len(listing.Results) > 0 {
		return &listing.Results[0], nil
	}

	var single Attachment
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}
	return &single, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
