package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/types"
)

const gatewayBodyReadLimit int64 = 4096

// gatewayStatus values shared by both card gateways.
const (
	gatewayStatusRedirect = "redirect"
	gatewayStatusFailure  = "failure"
	gatewayStatusSuccess  = "success"
)

// iyzicoCredentials are resolved from payment settings per request so
// an admin credential change applies without a restart.
type iyzicoCredentials struct {
	APIKey    string
	SecretKey string
	Sandbox   bool
}

// IyzicoClient drives the inline-card gateway. The shopper's card
// fields travel in the initiation call and the gateway answers with
// 3-D-Secure challenge markup.
type IyzicoClient struct {
	httpClient *http.Client
	sandboxURL string
	liveURL    string
}

// IyzicoOption configures optional client behavior.
type IyzicoOption func(*IyzicoClient)

// WithIyzicoHTTPClient overrides the default HTTP client.
func WithIyzicoHTTPClient(client *http.Client) IyzicoOption {
	return func(c *IyzicoClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithIyzicoBaseURL points both sandbox and live traffic at one URL.
func WithIyzicoBaseURL(baseURL string) IyzicoOption {
	return func(c *IyzicoClient) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.sandboxURL = trimmed
			c.liveURL = trimmed
		}
	}
}

// NewIyzicoClient builds the inline-card gateway client.
func NewIyzicoClient(cfg config.IyzicoConfig, opts ...IyzicoOption) *IyzicoClient {
	client := &IyzicoClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		sandboxURL: strings.TrimRight(cfg.SandboxURL, "/"),
		liveURL:    strings.TrimRight(cfg.LiveURL, "/"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

type iyzicoInitRequest struct {
	ConversationID string         `json:"conversation_id"`
	Price          string         `json:"price"`
	PaidPrice      string         `json:"paid_price"`
	Currency       string         `json:"currency"`
	Installments   int            `json:"installments"`
	CallbackURL    string         `json:"callback_url"`
	Card           iyzicoCard     `json:"payment_card"`
	Buyer          iyzicoBuyer    `json:"buyer"`
	BasketItems    []iyzicoBasket `json:"basket_items"`
}

type iyzicoCard struct {
	HolderName  string `json:"card_holder_name"`
	Number      string `json:"card_number"`
	ExpireMonth string `json:"expire_month"`
	ExpireYear  string `json:"expire_year"`
	CVC         string `json:"cvc"`
}

type iyzicoBuyer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"gsm_number"`
	Address string `json:"registration_address"`
	City    string `json:"city"`
}

type iyzicoBasket struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type iyzicoInitResponse struct {
	Status       string `json:"status"`
	HTMLContent  string `json:"html_content"`
	ErrorMessage string `json:"error_message"`
}

// Initiate starts a 3-D-Secure payment and returns the challenge
// markup the shopper's browser must render.
func (c *IyzicoClient) Initiate(ctx context.Context, creds iyzicoCredentials, intentID uuid.UUID, draft types.OrderDraft, card CardFields, callbackURL string) (string, *Failure, error) {
	payload := iyzicoInitRequest{
		ConversationID: intentID.String(),
		Price:          draft.Total,
		PaidPrice:      draft.Total,
		Currency:       "TRY",
		Installments:   card.Installments,
		CallbackURL:    c.signedCallbackURL(creds, intentID, callbackURL),
		Card: iyzicoCard{
			HolderName:  card.HolderName,
			Number:      card.Number,
			ExpireMonth: card.ExpireMonth,
			ExpireYear:  card.ExpireYear,
			CVC:         card.CVC,
		},
		Buyer: iyzicoBuyer{
			Name:    draft.Customer.Name,
			Phone:   draft.Customer.Phone,
			Address: draft.Customer.Address,
			City:    draft.Customer.City,
		},
	}
	if draft.Customer.Email != nil {
		payload.Buyer.Email = *draft.Customer.Email
	}
	for _, line := range draft.Lines {
		payload.BasketItems = append(payload.BasketItems, iyzicoBasket{
			ID:       line.ProductID.String(),
			Name:     line.Name,
			Price:    line.UnitPrice,
			Quantity: line.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal iyzico request")
	}

	url := c.liveURL + "/payment/3dsecure/initialize"
	if creds.Sandbox {
		url = c.sandboxURL + "/payment/3dsecure/initialize"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build iyzico request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", iyzicoAuthHeader(creds, body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute iyzico request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, gatewayBodyReadLimit))
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"iyzico request failed")
	}

	var apiResp iyzicoInitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&apiResp); err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode iyzico response")
	}

	switch apiResp.Status {
	case gatewayStatusRedirect, gatewayStatusSuccess:
		markup := decodeChallengeMarkup(apiResp.HTMLContent)
		if markup == "" {
			return "", nil, pkgerrors.New(pkgerrors.CodeDependency, "iyzico response missing challenge markup")
		}
		return markup, nil, nil
	default:
		message := strings.TrimSpace(apiResp.ErrorMessage)
		if message == "" {
			message = "payment was rejected by the card gateway"
		}
		return "", &Failure{Message: message}, nil
	}
}

// signedCallbackURL appends the intent id and its token to the
// callback URL. The gateway posts the 3-D-Secure result back to this
// URL verbatim, so the query string is how the token reaches us.
func (c *IyzicoClient) signedCallbackURL(creds iyzicoCredentials, intentID uuid.UUID, callbackURL string) string {
	q := url.Values{}
	q.Set("intent_id", intentID.String())
	q.Set("token", c.CallbackToken(creds, intentID))
	sep := "?"
	if strings.Contains(callbackURL, "?") {
		sep = "&"
	}
	return callbackURL + sep + q.Encode()
}

// CallbackToken derives the token iyzico-style callbacks must carry.
func (c *IyzicoClient) CallbackToken(creds iyzicoCredentials, intentID uuid.UUID) string {
	mac := hmac.New(sha256.New, []byte(creds.SecretKey))
	mac.Write([]byte(intentID.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback checks the token presented by a callback against the
// one derived from the stored secret.
func (c *IyzicoClient) VerifyCallback(creds iyzicoCredentials, intentID uuid.UUID, token string) bool {
	expected := c.CallbackToken(creds, intentID)
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(token)))
}

// decodeChallengeMarkup accepts the markup either raw or base64-coded,
// which is how the gateway ships it in practice.
func decodeChallengeMarkup(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil && looksLikeMarkup(string(decoded)) {
		return string(decoded)
	}
	return trimmed
}

func looksLikeMarkup(value string) bool {
	return strings.Contains(value, "<")
}

func iyzicoAuthHeader(creds iyzicoCredentials, body []byte) string {
	mac := hmac.New(sha256.New, []byte(creds.SecretKey))
	mac.Write(body)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return "IYZWSv2 " + creds.APIKey + ":" + signature
}
