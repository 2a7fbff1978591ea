package in

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/quiz/dto"
	quizin "github.com/Jibinz12/cerebra-app/internal/modules/quiz/port/in"
)

type CLIHandler struct {
	usecase quizin.Usecase
}

func NewCLIHandler(usecase quizin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, topic string) (dto.QuizOutput, error) {
	return h.usecase.Start(ctx, topic)
}

func (h CLIHandler) Finish(ctx context.Context, topic string, xpGained int) (dto.FinishOutput, error) {
	return h.usecase.Finish(ctx, dto.FinishInput{Topic: topic, XPGained: xpGained})
}
