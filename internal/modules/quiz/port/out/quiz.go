package out

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/quiz/domain"
)

// QuizSource drafts questions for a topic remotely.
type QuizSource interface {
	GenerateQuiz(ctx context.Context, topic string) ([]domain.Question, error)
}
