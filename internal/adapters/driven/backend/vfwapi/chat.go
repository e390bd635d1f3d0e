package vfwapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// audioPart is the multipart field audio is uploaded under.
const audioPart = "audio"

// chatResponse is the body of an assistant response.
// Fields the endpoint does not return are left empty.
type chatResponse struct {
	AudioURL        string           `json:"audio_url"`
	MatchedSections []string         `json:"matched_sections"`
	TranslatedTexts []string         `json:"translated_texts"`
	IPCSections     []map[string]any `json:"ipc_sections"`
	BNSSections     []map[string]any `json:"bns_sections"`
	Language        string           `json:"language"`
	PDFEnglishURL   string           `json:"pdf_english_url"`
	PDFRegionalURL  string           `json:"pdf_regional_url"`
	TranscribedText string           `json:"transcribed_text"`
	FormattedOutput string           `json:"formatted_output"`
	MatchedQuery    string           `json:"matched_query"`
	BNSSectionInfo  map[string]any   `json:"bns_section_info"`
}

// SendAudio posts an audio query as multipart form data.
func (c *Client) SendAudio(ctx context.Context, chat domain.ChatRequest) (*domain.ChatReply, error) {
	if chat.Audio == nil || len(chat.Audio.Data) == 0 {
		return nil, domain.ErrNoAudio
	}
	if !chat.Kind.IsValid() {
		return nil, domain.ErrUnsupportedKind
	}

	body, contentType, err := encodeMultipart(chat)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chat.Kind.Endpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var resp chatResponse
	if err := c.do(req, chat.Token, &resp, errorFirst); err != nil {
		return nil, err
	}

	return &domain.ChatReply{
		AudioURL: c.ResolveURL(resp.AudioURL),
		Result: domain.LegalResult{
			MatchedSections: resp.MatchedSections,
			TranslatedTexts: resp.TranslatedTexts,
			IPCSections:     resp.IPCSections,
			BNSSections:     resp.BNSSections,
			Language:        resp.Language,
			PDFEnglishURL:   resp.PDFEnglishURL,
			PDFRegionalURL:  resp.PDFRegionalURL,
			TranscribedText: resp.TranscribedText,
			FormattedOutput: resp.FormattedOutput,
			MatchedQuery:    resp.MatchedQuery,
			BNSSectionInfo:  resp.BNSSectionInfo,
		},
	}, nil
}

// encodeMultipart writes the form fields, sorted by key, and the audio part.
func encodeMultipart(chat domain.ChatRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(chat.Fields))
	for k := range chat.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, chat.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, audioPart, domain.UploadFileName))
	header.Set("Content-Type", domain.UploadMIMEType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create audio part: %w", err)
	}
	if _, err := part.Write(chat.Audio.Data); err != nil {
		return nil, "", fmt.Errorf("write audio: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
