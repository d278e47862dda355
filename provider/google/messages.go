package google

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/genai"

	ai "github.com/spindleworks/spindle"
)

// convertMessages maps canonical messages onto genai Contents. Assistant
// turns use the "model" role; tool results travel as user turns carrying
// FunctionResponse parts. System messages are folded into user turns; the
// request-level system prompt uses SystemInstruction instead.
func convertMessages(messages []ai.Message) ([]*genai.Content, error) {
	var contents []*genai.Content

	for _, msg := range messages {
		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "model"
		}

		var parts []*genai.Part
		if msg.HasAttachments() {
			converted, err := convertAttachments(msg.Attachments)
			if err != nil {
				return nil, err
			}
			parts = converted
		} else if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}

		for _, tc := range msg.ToolCalls {
			var args map[string]any
			json.Unmarshal([]byte(tc.Arguments), &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: tc.Name,
					Args: args,
				},
			})
		}

		for _, tr := range msg.ToolResults {
			var result map[string]any
			if err := json.Unmarshal([]byte(tr.Content), &result); err != nil {
				result = map[string]any{"result": tr.Content}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     functionNameFromCallID(tr.ToolCallID),
					Response: result,
				},
			})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{
				Role:  role,
				Parts: parts,
			})
		}
	}

	return contents, nil
}

func convertAttachments(attachments []ai.Attachment) ([]*genai.Part, error) {
	var result []*genai.Part
	for _, att := range attachments {
		switch att.Kind {
		case ai.AttachmentText:
			if att.Text != "" {
				result = append(result, &genai.Part{Text: att.Text})
			}
		case ai.AttachmentImage:
			switch {
			case att.Data != "":
				// The blob wants raw base64, not a data URI.
				raw := att.Data
				if idx := strings.Index(raw, ";base64,"); strings.HasPrefix(raw, "data:") && idx >= 0 {
					raw = raw[idx+len(";base64,"):]
				}
				data, err := base64.StdEncoding.DecodeString(raw)
				if err != nil {
					return nil, fmt.Errorf("decode image data: %w", err)
				}
				mimeType := att.MimeType
				if mimeType == "" {
					mimeType = "image/jpeg"
				}
				result = append(result, &genai.Part{
					InlineData: &genai.Blob{Data: data, MIMEType: mimeType},
				})
			case strings.HasPrefix(att.URL, "gs://"):
				result = append(result, &genai.Part{
					FileData: &genai.FileData{FileURI: att.URL, MIMEType: att.MimeType},
				})
			case att.URL != "":
				// The Gemini API cannot fetch arbitrary remote URLs, so the
				// image is pulled client-side and inlined.
				data, mimeType, err := fetchImage(att.URL)
				if err != nil {
					return nil, fmt.Errorf("fetch image %s: %w", att.URL, err)
				}
				if att.MimeType != "" {
					mimeType = att.MimeType
				}
				result = append(result, &genai.Part{
					InlineData: &genai.Blob{Data: data, MIMEType: mimeType},
				})
			}
		}
	}
	return result, nil
}

func fetchImage(url string) ([]byte, string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "spindle/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}
