package vision

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/DanielChillemi/pourcast/internal/upstream"
)

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    imagePayload   `json:"image"`
	Features []featureEntry `json:"features"`
}

type imagePayload struct {
	Content string `json:"content"`
}

type featureEntry struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		FullTextAnnotation struct {
			Text  string `json:"text"`
			Pages []struct {
				Confidence float64 `json:"confidence"`
			} `json:"pages"`
		} `json:"fullTextAnnotation"`
	} `json:"responses"`
}

// GoogleDetector runs TEXT_DETECTION through the Google Vision REST API.
type GoogleDetector struct {
	apiKey  string
	baseURL string
	client  *upstream.Client
}

func NewGoogleDetector(httpc *http.Client, apiKey string) *GoogleDetector {
	return &GoogleDetector{
		apiKey:  apiKey,
		baseURL: "https://vision.googleapis.com",
		client:  upstream.NewClient("vision", httpc),
	}
}

func (d *GoogleDetector) Detect(ctx context.Context, imageBase64 string) (Result, error) {
	u := fmt.Sprintf("%s/v1/images:annotate?key=%s", d.baseURL, url.QueryEscape(d.apiKey))

	req := annotateRequest{Requests: []annotateEntry{{
		Image:    imagePayload{Content: imageBase64},
		Features: []featureEntry{{Type: "TEXT_DETECTION"}},
	}}}

	resp, err := upstream.PostJSON[annotateResponse](ctx, d.client, u, req)
	if err != nil {
		return Result{}, fmt.Errorf("vision: %w", err)
	}
	if len(resp.Responses) == 0 {
		return Result{}, fmt.Errorf("vision: empty annotate response")
	}

	r := resp.Responses[0]
	text := r.FullTextAnnotation.Text
	if text == "" && len(r.TextAnnotations) > 0 {
		text = r.TextAnnotations[0].Description
	}

	// The API reports page confidence as a 0..1 fraction and omits it
	// for some images.
	confidence := 85
	if len(r.FullTextAnnotation.Pages) > 0 && r.FullTextAnnotation.Pages[0].Confidence > 0 {
		confidence = int(math.Round(r.FullTextAnnotation.Pages[0].Confidence * 100))
	}

	return Result{Text: text, Confidence: confidence}, nil
}
