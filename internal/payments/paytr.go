package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/types"
)

// paytrCredentials are resolved from payment settings per request.
type paytrCredentials struct {
	MerchantID   string
	MerchantKey  string
	MerchantSalt string
	Sandbox      bool
}

// PaytrClient drives the hosted-iframe gateway. Card entry happens on
// the gateway's own page, so this client never touches card fields.
type PaytrClient struct {
	httpClient *http.Client
	sandboxURL string
	liveURL    string
	iframeBase string
}

// PaytrOption configures optional client behavior.
type PaytrOption func(*PaytrClient)

// WithPaytrHTTPClient overrides the default HTTP client.
func WithPaytrHTTPClient(client *http.Client) PaytrOption {
	return func(c *PaytrClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPaytrBaseURL points both sandbox and live traffic at one URL.
func WithPaytrBaseURL(baseURL string) PaytrOption {
	return func(c *PaytrClient) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.sandboxURL = trimmed
			c.liveURL = trimmed
		}
	}
}

// NewPaytrClient builds the hosted-iframe gateway client.
func NewPaytrClient(cfg config.PaytrConfig, opts ...PaytrOption) *PaytrClient {
	client := &PaytrClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		sandboxURL: strings.TrimRight(cfg.SandboxURL, "/"),
		liveURL:    strings.TrimRight(cfg.LiveURL, "/"),
		iframeBase: strings.TrimRight(cfg.IframeBase, "/"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// paytrInitRequest deliberately has no card fields. The shopper types
// card data into the gateway's iframe, never into our backend.
type paytrInitRequest struct {
	MerchantID    string `json:"merchant_id"`
	MerchantOID   string `json:"merchant_oid"`
	Email         string `json:"email,omitempty"`
	PaymentAmount int64  `json:"payment_amount"`
	Currency      string `json:"currency"`
	UserName      string `json:"user_name"`
	UserPhone     string `json:"user_phone"`
	UserAddress   string `json:"user_address"`
	TestMode      string `json:"test_mode"`
	CallbackURL   string `json:"merchant_notify_url"`
	Token         string `json:"paytr_token"`
}

type paytrInitResponse struct {
	Status       string `json:"status"`
	Token        string `json:"token"`
	RedirectURL  string `json:"redirect_url"`
	ErrorMessage string `json:"error_message"`
}

// Initiate requests a hosted payment page and returns the iframe URL
// the storefront should embed.
func (c *PaytrClient) Initiate(ctx context.Context, creds paytrCredentials, intentID uuid.UUID, draft types.OrderDraft, callbackURL string) (string, *Failure, error) {
	amount, err := amountInKurus(draft)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing draft total")
	}

	payload := paytrInitRequest{
		MerchantID:    creds.MerchantID,
		MerchantOID:   merchantOID(intentID),
		PaymentAmount: amount,
		Currency:      "TL",
		UserName:      draft.Customer.Name,
		UserPhone:     draft.Customer.Phone,
		UserAddress:   strings.TrimSpace(draft.Customer.Address + " " + draft.Customer.City),
		TestMode:      "0",
		CallbackURL:   callbackURL,
	}
	if creds.Sandbox {
		payload.TestMode = "1"
	}
	if draft.Customer.Email != nil {
		payload.Email = *draft.Customer.Email
	}
	payload.Token = paytrRequestToken(creds, payload)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal paytr request")
	}

	url := c.liveURL
	if creds.Sandbox {
		url = c.sandboxURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build paytr request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute paytr request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, gatewayBodyReadLimit))
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"paytr request failed")
	}

	var apiResp paytrInitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&apiResp); err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode paytr response")
	}

	switch apiResp.Status {
	case gatewayStatusRedirect, gatewayStatusSuccess:
		if url := strings.TrimSpace(apiResp.RedirectURL); url != "" {
			return url, nil, nil
		}
		if token := strings.TrimSpace(apiResp.Token); token != "" {
			return c.iframeBase + "/" + token, nil, nil
		}
		return "", nil, pkgerrors.New(pkgerrors.CodeDependency, "paytr response missing redirect target")
	default:
		message := strings.TrimSpace(apiResp.ErrorMessage)
		if message == "" {
			message = "payment was rejected by the card gateway"
		}
		return "", &Failure{Message: message}, nil
	}
}

// VerifyCallback checks the signature on a gateway notification.
func (c *PaytrClient) VerifyCallback(creds paytrCredentials, merchantOID, status, totalAmount, hash string) bool {
	expected := paytrCallbackHash(creds, merchantOID, status, totalAmount)
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(hash)))
}

// merchantOID strips the dashes, the gateway only accepts [a-zA-Z0-9].
func merchantOID(intentID uuid.UUID) string {
	return strings.ReplaceAll(intentID.String(), "-", "")
}

// IntentIDFromMerchantOID reverses merchantOID.
func IntentIDFromMerchantOID(oid string) (uuid.UUID, error) {
	return uuid.Parse(oid)
}

func amountInKurus(draft types.OrderDraft) (int64, error) {
	total, err := draft.TotalAmount()
	if err != nil {
		return 0, err
	}
	return total.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func paytrRequestToken(creds paytrCredentials, req paytrInitRequest) string {
	base := creds.MerchantID + req.MerchantOID + fmt.Sprintf("%d", req.PaymentAmount) + req.TestMode + creds.MerchantSalt
	mac := hmac.New(sha256.New, []byte(creds.MerchantKey))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func paytrCallbackHash(creds paytrCredentials, merchantOID, status, totalAmount string) string {
	mac := hmac.New(sha256.New, []byte(creds.MerchantKey))
	mac.Write([]byte(merchantOID + creds.MerchantSalt + status + totalAmount))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
