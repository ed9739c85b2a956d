package repository

import (
	"context"

	"reelpilot/domain/model"
)

// IVideoGenerator dispatches video generation to the external render service.
// Generation itself (script, imagery, voiceover, assembly) happens outside this
// service; completion arrives via the render callback endpoint.
type IVideoGenerator interface {
	Generate(ctx context.Context, job *model.Job, video *model.Video, series *model.Series) error
}
