package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
)

// Daraja互換のSTK Pushクライアント。
// 受理（ResponseCode 0）までを扱い、支払い確定はcallback側。
type Client struct {
	httpClient *http.Client

	baseURL        string
	consumerKey    string
	consumerSecret string
	shortCode      string
	passkey        string
	callbackURL    string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	// 外部呼び出しのタイムアウト。0なら20秒。
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		shortCode:      cfg.ShortCode,
		passkey:        cfg.Passkey,
		callbackURL:    cfg.CallbackURL,
	}
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	ErrorMessage        string `json:"errorMessage"`
}

// STK Pushを1件発行する
func (c *Client) InitiatePush(ctx context.Context, phone string, amount int64, kind model.ItemKind, itemID string, reference string) (repo.PushReceipt, error) {
	if amount <= 0 {
		return repo.PushReceipt{}, fmt.Errorf("invalid amount: %d", amount)
	}

	msisdn, err := NormalizePhone(phone)
	if err != nil {
		return repo.PushReceipt{}, err
	}

	token, err := c.token(ctx)
	if err != nil {
		return repo.PushReceipt{}, err
	}

	ts := time.Now().Format("20060102150405")
	body := stkPushRequest{
		BusinessShortCode: c.shortCode,
		Password:          base64.StdEncoding.EncodeToString([]byte(c.shortCode + c.passkey + ts)),
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            msisdn,
		PartyB:            c.shortCode,
		PhoneNumber:       msisdn,
		CallBackURL:       c.callbackURL,
		AccountReference:  reference,
		TransactionDesc:   fmt.Sprintf("%s %s", kind, itemID),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return repo.PushReceipt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(payload))
	if err != nil {
		return repo.PushReceipt{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return repo.PushReceipt{}, fmt.Errorf("stk push request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return repo.PushReceipt{}, err
	}

	var out stkPushResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return repo.PushReceipt{}, fmt.Errorf("stk push response unparseable: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		msg := out.ErrorMessage
		if msg == "" {
			msg = res.Status
		}
		return repo.PushReceipt{}, fmt.Errorf("stk push rejected: %s", msg)
	}
	if out.ResponseCode != "0" {
		return repo.PushReceipt{}, fmt.Errorf("stk push rejected: %s", out.ResponseDescription)
	}

	return repo.PushReceipt{
		MerchantRequestID: out.MerchantRequestID,
		CheckoutRequestID: out.CheckoutRequestID,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// アクセストークンを取得。期限内ならキャッシュを使う。
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request rejected: %s", res.Status)
	}

	var out tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("token response empty")
	}

	c.accessToken = out.AccessToken
	// 期限は1時間弱。余裕をみて50分。
	c.tokenExpiry = time.Now().Add(50 * time.Minute)

	return c.accessToken, nil
}

// NormalizePhoneはケニアの携帯番号を254形式に揃える。
// 0712..., +254712..., 254712... を受け付ける。
func NormalizePhone(phone string) (string, error) {
	p := strings.TrimSpace(phone)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.TrimPrefix(p, "+")

	if strings.HasPrefix(p, "0") {
		p = "254" + p[1:]
	}

	if !strings.HasPrefix(p, "254") || len(p) != 12 {
		return "", fmt.Errorf("invalid phone: %s", phone)
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("invalid phone: %s", phone)
		}
	}
	return p, nil
}
