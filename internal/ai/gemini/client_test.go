package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/hireloop/screener/internal/ai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeCaller struct {
	mu      sync.Mutex
	queue   []fakeResponse
	prompts []string
}

func (f *fakeCaller) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, content := range contents {
		for _, part := range content.Parts {
			f.prompts = append(f.prompts, part.Text)
		}
	}

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}

	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func (f *fakeCaller) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeCaller) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestClassifier(models contentCaller, maxRetries int) *Classifier {
	return &Classifier{
		models:     models,
		model:      "gemini-2.0-flash",
		maxRetries: maxRetries,
		maxLogLen:  defaultMaxLogLength,
		logger:     zap.NewNop(),
	}
}

func stubSleep(t *testing.T) {
	t.Helper()
	original := sleep
	sleep = func(time.Duration) {}
	t.Cleanup(func() { sleep = original })
}

func TestClassifyReturnsModelText(t *testing.T) {
	models := &fakeCaller{}
	models.enqueue(textResponse("  Mid-level  "), nil)

	c := newTestClassifier(models, 1)

	out, err := c.Classify(context.Background(), "categorize this application")
	require.NoError(t, err)
	require.Equal(t, "Mid-level", out)
	require.Equal(t, 1, models.calls())
	require.Equal(t, "categorize this application", models.prompts[0])
}

func TestClassifyRetriesOnTemporaryError(t *testing.T) {
	stubSleep(t)

	models := &fakeCaller{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("Match"), nil)

	c := newTestClassifier(models, 2)

	out, err := c.Classify(context.Background(), "assess this application")
	require.NoError(t, err)
	require.Equal(t, "Match", out)
	require.Equal(t, 2, models.calls())
}

func TestClassifyStopsAfterRetriesExhausted(t *testing.T) {
	stubSleep(t)

	models := &fakeCaller{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	c := newTestClassifier(models, 2)

	_, err := c.Classify(context.Background(), "prompt")
	require.ErrorIs(t, err, ai.ErrUnavailable)
	require.Equal(t, 2, models.calls())
}

func TestClassifyDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	models := &fakeCaller{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	c := newTestClassifier(models, 3)

	_, err := c.Classify(context.Background(), "prompt")
	require.ErrorIs(t, err, ai.ErrUnavailable)
	require.Equal(t, 1, models.calls())
}

func TestClassifyDoesNotRetryOnAuthError(t *testing.T) {
	models := &fakeCaller{}
	models.enqueue(nil, genai.APIError{Code: http.StatusUnauthorized, Status: "UNAUTHENTICATED"})

	c := newTestClassifier(models, 3)

	_, err := c.Classify(context.Background(), "prompt")
	require.ErrorIs(t, err, ai.ErrUnavailable)
	require.Equal(t, 1, models.calls())
}

func TestClassifyEmptyResponseIsUnavailable(t *testing.T) {
	models := &fakeCaller{}
	models.enqueue(&genai.GenerateContentResponse{}, nil)

	c := newTestClassifier(models, 1)

	_, err := c.Classify(context.Background(), "prompt")
	require.ErrorIs(t, err, ai.ErrUnavailable)
}

func TestClassifyRejectsEmptyPrompt(t *testing.T) {
	c := newTestClassifier(&fakeCaller{}, 1)

	_, err := c.Classify(context.Background(), "   ")
	require.Error(t, err)
	require.NotErrorIs(t, err, ai.ErrUnavailable)
}

func TestCollectTextJoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: " first "}, {Text: ""}, {Text: "second"}}}},
			nil,
		},
	}

	require.Equal(t, "first\nsecond", collectText(resp))
	require.Equal(t, "", collectText(nil))
}

func TestQuotaDelayParsing(t *testing.T) {
	require.Equal(t, 60*time.Second, quotaDelay("please retry after 60 seconds"))
	require.Equal(t, time.Duration(0), quotaDelay("no delay hint"))
}
