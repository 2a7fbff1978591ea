package in

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/quiz/dto"
)

type Usecase interface {
	Start(ctx context.Context, topic string) (dto.QuizOutput, error)
	Finish(ctx context.Context, input dto.FinishInput) (dto.FinishOutput, error)
}
