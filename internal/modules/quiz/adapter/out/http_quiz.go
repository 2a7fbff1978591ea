package out

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Jibinz12/cerebra-app/internal/modules/quiz/domain"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
	"github.com/Jibinz12/cerebra-app/internal/platform/rest"
)

// HTTPQuizSource fetches generated question sets from the study service.
type HTTPQuizSource struct {
	client *rest.Client
}

func NewHTTPQuizSource(client *rest.Client) *HTTPQuizSource {
	return &HTTPQuizSource{client: client}
}

type quizRequest struct {
	Topic string `json:"topic"`
}

type quizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// quizResponse mirrors the service, which reports generation trouble as
// an error field on a 200 rather than a failure status.
type quizResponse struct {
	Questions []quizQuestion `json:"questions"`
	Error     string         `json:"error"`
}

func (q *HTTPQuizSource) GenerateQuiz(ctx context.Context, topic string) ([]domain.Question, error) {
	var resp quizResponse
	if err := q.client.Do(ctx, http.MethodPost, "/generate-quiz", nil, quizRequest{Topic: topic}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrGenerationFailed, resp.Error)
	}

	questions := make([]domain.Question, 0, len(resp.Questions))
	for _, it := range resp.Questions {
		questions = append(questions, domain.Question{Prompt: it.Question, Options: it.Options, Answer: it.Answer})
	}
	return questions, nil
}
