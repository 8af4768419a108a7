package openai_test

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
	"github.com/papercomputeco/vignettes/pkg/llm/provider/openai"
)

const completedResponse = `{
	"id": "resp_123",
	"object": "response",
	"created_at": 1741476542,
	"model": "gpt-4o-mini-2024-07-18",
	"status": "completed",
	"output": [{
		"type": "message",
		"id": "msg_123",
		"status": "completed",
		"role": "assistant",
		"content": [{"type": "output_text", "text": "  The tide turns at Neketaka.  ", "annotations": []}]
	}],
	"usage": {"input_tokens": 12, "output_tokens": 7, "total_tokens": 19}
}`

var _ = Describe("OpenAI Completer", func() {
	var (
		server   *httptest.Server
		captured map[string]any
		path     string
		status   int
		body     string
	)

	BeforeEach(func() {
		captured = nil
		status = http.StatusOK
		body = completedResponse

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &captured)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newCompleter := func() llm.Completer {
		return openai.New("sk-test", "gpt-4o-mini", server.URL+"/v1/")
	}

	It("reports the configured model", func() {
		Expect(newCompleter().Model()).To(Equal("gpt-4o-mini"))
		Expect(openai.New("sk-test", "", "").Model()).To(Equal(openai.DefaultModel))
	})

	It("sends the request parameters to the responses endpoint", func() {
		resp, err := newCompleter().Complete(context.Background(), &llm.CompletionRequest{
			System:      "You are a storyteller.",
			Prompt:      "Write a scene.",
			MaxTokens:   1500,
			Temperature: 0.8,
			Timeout:     5 * time.Second,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(path).To(Equal("/v1/responses"))
		Expect(captured["model"]).To(Equal("gpt-4o-mini"))
		Expect(captured["instructions"]).To(Equal("You are a storyteller."))
		Expect(captured["input"]).To(Equal("Write a scene."))
		Expect(captured["max_output_tokens"]).To(BeNumerically("==", 1500))
		Expect(captured["temperature"]).To(BeNumerically("~", 0.8))

		Expect(resp.Text).To(Equal("The tide turns at Neketaka."))
		Expect(resp.Model).To(Equal("gpt-4o-mini-2024-07-18"))
		Expect(resp.StopReason).To(Equal("completed"))
		Expect(resp.Usage.TotalTokens).To(Equal(19))
	})

	It("omits instructions when there is no system prompt", func() {
		_, err := newCompleter().Complete(context.Background(), &llm.CompletionRequest{Prompt: "hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(captured).NotTo(HaveKey("instructions"))
		Expect(captured).NotTo(HaveKey("max_output_tokens"))
	})

	It("returns ErrEmptyCompletion when the output has no text", func() {
		body = `{"id": "resp_1", "object": "response", "model": "gpt-4o-mini", "status": "completed", "output": []}`

		_, err := newCompleter().Complete(context.Background(), &llm.CompletionRequest{Prompt: "hi"})
		Expect(err).To(MatchError(llm.ErrEmptyCompletion))
	})

	It("surfaces API errors without retrying", func() {
		calls := 0
		server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
		})

		_, err := newCompleter().Complete(context.Background(), &llm.CompletionRequest{Prompt: "hi"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("openai request"))
		Expect(calls).To(Equal(1))
	})
})
