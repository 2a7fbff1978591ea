package in

import (
	"context"

	"github.com/Jibinz12/cerebra-app/internal/modules/focus/dto"
)

type Usecase interface {
	Complete(ctx context.Context, input dto.CompletionInput) (dto.CompletionOutput, error)
}
