package llm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/healthners/healthners/internal/domain"
)

func TestSystemInstructionsHaveLinks(t *testing.T) {
	text := SystemInstructions()
	assert.NotContains(t, text, "{{")
	for _, link := range videoLinks {
		assert.True(t, strings.Contains(text, link), "missing link %s", link)
	}
}

func TestSeedHistoryAlternatesRoles(t *testing.T) {
	history := seedHistory()
	require.Len(t, history, 4)
	for i, c := range history {
		want := genai.RoleUser
		if i%2 == 1 {
			want = genai.RoleModel
		}
		assert.EqualValues(t, want, c.Role)
	}
}

func TestSystemInstructionsKeepResponseTemplates(t *testing.T) {
	text := SystemInstructions()
	assert.Contains(t, text, "**General Template for Unforeseen Student Complaints:**")
	assert.Contains(t, text, "> I understand, eye fatigue is a common problem with distance learning.")
	assert.Contains(t, text, "[Eye Exercises Video](https://youtu.be/sSFM5Ff5oVM)")
	assert.Contains(t, text, "[And also another video on posture](https://youtu.be/Khgtd-oHZtc)")
}

func TestInstructionsSentOnlyInSeedHistory(t *testing.T) {
	cfg := generationConfig()
	assert.Nil(t, cfg.SystemInstruction)
	assert.Len(t, cfg.SafetySettings, 4)

	history := seedHistory()
	require.Len(t, history[2].Parts, 1)
	assert.Equal(t, SystemInstructions(), history[2].Parts[0].Text)

	count := 0
	for _, c := range history {
		for _, p := range c.Parts {
			if p.Text == SystemInstructions() {
				count++
			}
		}
	}
	assert.Equal(t, 1, count)
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.ModelErrorKind
	}{
		{"quota", genai.APIError{Code: http.StatusTooManyRequests}, domain.ModelErrorRateLimit},
		{"server", genai.APIError{Code: http.StatusServiceUnavailable}, domain.ModelErrorNetwork},
		{"bad request", genai.APIError{Code: http.StatusBadRequest}, domain.ModelErrorUnknown},
		{"transport", &url.Error{Op: "Post", URL: "https://example.invalid", Err: errors.New("dial tcp")}, domain.ModelErrorNetwork},
		{"deadline", context.DeadlineExceeded, domain.ModelErrorNetwork},
		{"other", errors.New("boom"), domain.ModelErrorUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyError(tc.err)
			assert.Equal(t, tc.want, domain.ModelErrorKindOf(err))
			assert.Equal(t, tc.err, errors.Unwrap(err))
		})
	}
}

func TestBlockReason(t *testing.T) {
	assert.Empty(t, blockReason(nil))
	assert.Empty(t, blockReason(&genai.GenerateContentResponse{}))

	blocked := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	}
	assert.Equal(t, "SAFETY", blockReason(blocked))

	finished := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	}
	assert.Equal(t, "SAFETY", blockReason(finished))
}

func TestNewGeminiModelRequiresCredentials(t *testing.T) {
	_, err := NewGeminiModel(context.Background(), GeminiConfig{})
	assert.Error(t, err)

	_, err = NewGeminiModel(context.Background(), GeminiConfig{UseVertex: true})
	assert.Error(t, err)
}

func TestMockModel(t *testing.T) {
	ctx := context.Background()
	m := NewMockModel()

	h, err := m.StartChat(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Started())

	m.SetReply("canned")
	reply, err := h.Send(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, "canned", reply)

	m.FailWith(errors.New("down"))
	_, err = h.Send(ctx, "again")
	assert.Error(t, err)
	assert.Equal(t, []string{"hi", "again"}, m.Prompts())
}
