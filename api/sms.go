package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ограничение на количество SMS в минуту
const smsLimitPerMinute = 6

var ErrSMSRateLimited = errors.New("sms limit reached, try later")

// SMS outcomes reported to the SMSRecorder.
const (
	SMSSent        = "sent"
	SMSFailed      = "failed"
	SMSRateLimited = "rate_limited"
)

// SMSRecorder counts delivery outcomes; middleware.Metrics implements it.
type SMSRecorder interface {
	SMS(result string)
}

type nopSMSRecorder struct{}

func (nopSMSRecorder) SMS(string) {}

type smsLog struct {
	windowStart  time.Time
	sentInWindow int
}

// SMSClient posts messages to the SMS gateway and caps how many messages a
// single phone receives per minute.
type SMSClient struct {
	url  string
	http *http.Client
	log  *zap.Logger
	rec  SMSRecorder
	now  func() time.Time

	mu    sync.Mutex
	phone map[string]*smsLog
}

func NewSMSClient(gatewayURL string, log *zap.Logger, rec SMSRecorder) *SMSClient {
	if rec == nil {
		rec = nopSMSRecorder{}
	}
	return &SMSClient{
		url:   gatewayURL,
		http:  &http.Client{Timeout: 5 * time.Second},
		log:   log,
		rec:   rec,
		now:   time.Now,
		phone: map[string]*smsLog{},
	}
}

// reserve takes one slot of the phone's per minute allowance.
func (s *SMSClient) reserve(phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	l, ok := s.phone[phone]
	if !ok {
		l = &smsLog{windowStart: now}
		s.phone[phone] = l
	}
	if now.Sub(l.windowStart) >= time.Minute {
		l.windowStart = now
		l.sentInWindow = 0
	}
	if l.sentInWindow >= smsLimitPerMinute {
		return ErrSMSRateLimited
	}
	l.sentInWindow++
	return nil
}

// Notify sends one message.
func (s *SMSClient) Notify(ctx context.Context, phone, message string) error {
	if s.url == "" {
		return errors.New("sms gateway not configured")
	}
	if err := s.reserve(phone); err != nil {
		s.rec.SMS(SMSRateLimited)
		return err
	}

	reqBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		s.rec.SMS(SMSFailed)
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	s.log.Debug("sms gateway response", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))

	if resp.StatusCode != http.StatusOK {
		s.rec.SMS(SMSFailed)
		return fmt.Errorf("received non-200 response from SMS service: %d", resp.StatusCode)
	}
	s.rec.SMS(SMSSent)
	return nil
}
