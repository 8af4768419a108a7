package anthropic_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/llm"
	"github.com/papercomputeco/vignettes/pkg/llm/provider/anthropic"
)

var _ = Describe("Anthropic Completer", func() {
	var (
		server   *httptest.Server
		captured map[string]any
		headers  http.Header
		status   int
		body     string
		delay    time.Duration
	)

	BeforeEach(func() {
		captured = nil
		status = http.StatusOK
		delay = 0
		body = `{
			"id": "msg_123",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5-20251001",
			"content": [{"type": "text", "text": "Neketaka\n"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 30, "output_tokens": 3}
		}`

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers = r.Header.Clone()
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &captured)
			time.Sleep(delay)

			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("defaults model and base URL", func() {
		c := anthropic.New("key", "", "")
		Expect(c.Model()).To(Equal(anthropic.DefaultModel))
	})

	It("sends a messages request and parses the text", func() {
		c := anthropic.New("test-key", "claude-haiku-4-5-20251001", server.URL)

		resp, err := c.Complete(context.Background(), &llm.CompletionRequest{
			System:      "You are an expert at analyzing game files.",
			Prompt:      "ar_0501_neketaka.lvl",
			MaxTokens:   500,
			Temperature: 0.1,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(headers.Get("x-api-key")).To(Equal("test-key"))
		Expect(headers.Get("anthropic-version")).To(Equal("2023-06-01"))
		Expect(captured["system"]).To(Equal("You are an expert at analyzing game files."))
		Expect(captured["max_tokens"]).To(BeNumerically("==", 500))
		Expect(captured["temperature"]).To(BeNumerically("~", 0.1))

		Expect(resp.Text).To(Equal("Neketaka"))
		Expect(resp.StopReason).To(Equal("end_turn"))
		Expect(resp.Usage.TotalTokens).To(Equal(33))
	})

	It("always sends max_tokens", func() {
		c := anthropic.New("k", "", server.URL)
		_, err := c.Complete(context.Background(), &llm.CompletionRequest{Prompt: "hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(captured["max_tokens"]).To(BeNumerically(">", 0))
	})

	It("returns an error on non-200 status", func() {
		status = http.StatusTooManyRequests
		body = `{"type": "error", "error": {"type": "rate_limit_error", "message": "slow down"}}`

		_, err := anthropic.New("k", "", server.URL).Complete(context.Background(), &llm.CompletionRequest{Prompt: "hi"})
		Expect(err).To(MatchError(ContainSubstring("status 429")))
	})

	It("returns ErrEmptyCompletion when no text block is present", func() {
		body = `{"type": "message", "content": [], "stop_reason": "end_turn"}`

		_, err := anthropic.New("k", "", server.URL).Complete(context.Background(), &llm.CompletionRequest{Prompt: "hi"})
		Expect(err).To(MatchError(llm.ErrEmptyCompletion))
	})

	It("surfaces the request timeout as a failure", func() {
		delay = 200 * time.Millisecond

		_, err := anthropic.New("k", "", server.URL).Complete(context.Background(), &llm.CompletionRequest{
			Prompt:  "hi",
			Timeout: 20 * time.Millisecond,
		})
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})
})
