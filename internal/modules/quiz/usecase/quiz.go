package usecase

import (
	"context"
	"fmt"
	"strings"

	progressdto "github.com/Jibinz12/cerebra-app/internal/modules/progress/dto"
	progressin "github.com/Jibinz12/cerebra-app/internal/modules/progress/port/in"
	"github.com/Jibinz12/cerebra-app/internal/modules/quiz/domain"
	"github.com/Jibinz12/cerebra-app/internal/modules/quiz/dto"
	quizin "github.com/Jibinz12/cerebra-app/internal/modules/quiz/port/in"
	quizout "github.com/Jibinz12/cerebra-app/internal/modules/quiz/port/out"
	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
)

type Interactor struct {
	source   quizout.QuizSource
	progress progressin.Usecase
}

func NewInteractor(source quizout.QuizSource, progress progressin.Usecase) quizin.Usecase {
	return &Interactor{source: source, progress: progress}
}

// Start fetches questions and refuses to hand back an empty quiz, so
// nothing downstream ever opens a session with no questions.
func (i *Interactor) Start(ctx context.Context, topic string) (dto.QuizOutput, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return dto.QuizOutput{}, fmt.Errorf("%w: quiz topic required", apperrors.ErrInvalidInput)
	}
	questions, err := i.source.GenerateQuiz(ctx, topic)
	if err != nil {
		return dto.QuizOutput{}, err
	}
	session, err := domain.NewSession(topic, questions)
	if err != nil {
		return dto.QuizOutput{}, err
	}

	out := dto.QuizOutput{Topic: session.Topic, Questions: make([]dto.QuestionOutput, 0, len(session.Questions))}
	for _, q := range session.Questions {
		out.Questions = append(out.Questions, dto.QuestionOutput{Prompt: q.Prompt, Options: q.Options, Answer: q.Answer})
	}
	return out, nil
}

// Finish books a completed quiz. Zero XP never touches the service;
// anything positive logs under the stock quiz label and refreshes.
func (i *Interactor) Finish(ctx context.Context, input dto.FinishInput) (dto.FinishOutput, error) {
	if input.XPGained <= 0 {
		return dto.FinishOutput{XPGained: input.XPGained}, nil
	}
	sync, err := i.progress.Sync(ctx, progressdto.LogInput{
		Topic:   domain.LogTopic,
		Minutes: domain.LogMinutes,
		XP:      input.XPGained,
	})
	if err != nil {
		return dto.FinishOutput{XPGained: input.XPGained, LogDropped: sync.LogDropped}, err
	}
	return dto.FinishOutput{
		XPGained:      input.XPGained,
		Refreshed:     true,
		TotalXP:       sync.Stats.TotalXP,
		Level:         sync.Stats.Level,
		LevelProgress: sync.Stats.LevelProgress,
		LevelStep:     sync.Stats.LevelStep,
		LogDropped:    sync.LogDropped,
	}, nil
}
