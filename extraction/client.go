// SPDX-License-Identifier: GPL-3.0-or-later
package extraction

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/log"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/sirupsen/logrus"
)

const ClientTimeout = 90 * time.Second

const systemPrompt = `You are given a vendor email response to a request for proposal. Extract ONLY a JSON object with the fields: vendorName, items (array of {name, qty, unitPrice, totalPrice, notes}), total, deliveryDays (number or null), paymentTerms, warranty, contactEmail (if present), notes. Use null for anything that is not stated. Return valid JSON only.`

//go:embed proposal.schema.json
var proposalSchema string

const schemaLocation = "proposal.schema.json"

// transientCodes are error codes returned with quota or rate limit failures.
var transientCodes = map[string]bool{
	"insufficient_quota":  true,
	"rate_limit_exceeded": true,
}

// Client extracts proposals with an OpenAI compatible chat completions endpoint.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	schema  *jsonschema.Schema

	l *logrus.Logger
}

func NewClient(baseURL, apiKey, model string) (*Client, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	return &Client{
		client: &http.Client{
			Timeout: ClientTimeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		schema:  schema,
		l:       log.Logger(log.LOG_EXTRACTION),
	}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(proposalSchema))
	if err != nil {
		return nil, fmt.Errorf("could not parse proposal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	err = compiler.AddResource(schemaLocation, doc)
	if err != nil {
		return nil, fmt.Errorf("could not add proposal schema: %w", err)
	}

	schema, err := compiler.Compile(schemaLocation)
	if err != nil {
		return nil, fmt.Errorf("could not compile proposal schema: %w", err)
	}
	return schema, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
		Text    string      `json:"text"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *Client) Extract(ctx context.Context, rawText string) (*domain.ProposalCandidate, error) {
	content, err := c.complete(ctx, rawText)
	if err != nil {
		return nil, err
	}

	candidate, err := c.parse(content, rawText)
	if err != nil {
		c.l.WithFields(logrus.Fields{"content": log.Truncate(content, 200), "error": err}).Warn("Unusable extraction output")
		return nil, domain.NewExtractionError(domain.ExtractionMalformed, err)
	}

	c.l.WithFields(logrus.Fields{"vendor": candidate.VendorName, "items": len(candidate.LineItems)}).Debug("Extracted proposal")
	return candidate, nil
}

func (c *Client) complete(ctx context.Context, rawText string) (string, error) {
	payload, err := json.Marshal(&chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Email:\n\n" + rawText},
		},
		Temperature:    0,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", domain.NewExtractionError(domain.ExtractionHard, fmt.Errorf("could not encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", domain.NewExtractionError(domain.ExtractionHard, fmt.Errorf("could not create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", domain.NewExtractionError(domain.ExtractionHard, fmt.Errorf("could not send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewExtractionError(domain.ExtractionHard, fmt.Errorf("could not read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyFailure(resp.StatusCode, body)
	}

	completion := &chatResponse{}
	err = json.Unmarshal(body, completion)
	if err != nil {
		return "", domain.NewExtractionError(domain.ExtractionHard, fmt.Errorf("could not deserialize response: %w", err))
	}
	if len(completion.Choices) == 0 {
		return "", domain.NewExtractionError(domain.ExtractionMalformed, errors.New("response has no choices"))
	}

	content := completion.Choices[0].Message.Content
	if len(content) == 0 {
		content = completion.Choices[0].Text
	}
	return content, nil
}

func classifyFailure(status int, body []byte) error {
	errResp := &errorResponse{}
	_ = json.Unmarshal(body, errResp)

	err := fmt.Errorf("unexpected status %d, expected 200", status)
	if len(errResp.Error.Message) > 0 {
		err = fmt.Errorf("unexpected status %d, expected 200: %s", status, errResp.Error.Message)
	}

	if status == http.StatusTooManyRequests || transientCodes[errResp.Error.Code] || transientCodes[errResp.Error.Type] {
		return domain.NewExtractionError(domain.ExtractionTransient, err)
	}
	return domain.NewExtractionError(domain.ExtractionHard, err)
}

// parse takes the outermost JSON object from content, which models sometimes wrap in
// prose or code fences.
func (c *Client) parse(content, rawText string) (*domain.ProposalCandidate, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return nil, errors.New("no json object in output")
	}
	object := content[start : end+1]

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(object))
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	err = c.schema.Validate(inst)
	if err != nil {
		return nil, fmt.Errorf("output does not match schema: %w", err)
	}

	wire := &wireProposal{}
	err = json.Unmarshal([]byte(object), wire)
	if err != nil {
		return nil, fmt.Errorf("could not decode output: %w", err)
	}

	return wire.toCandidate(rawText), nil
}
