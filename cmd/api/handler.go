package api

import (
	draftDelivery "draftpilot-backend/internal/draft/delivery"
	draftUsecasePkg "draftpilot-backend/internal/draft/usecase"
	"draftpilot-backend/pkg/config"
	"draftpilot-backend/pkg/graph"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine       *gin.Engine
	draftHandler *draftDelivery.DraftHandler
}

func NewHandler(draftUc draftUsecasePkg.DraftUsecase, graphClient *graph.Client, auth *graph.Authenticator, cfg *config.Config) *Handler {
	engine := gin.Default()

	draftHandler := draftDelivery.NewDraftHandler(draftUc, graphClient, auth, cfg)
	SetupRoutes(engine, draftHandler)

	return &Handler{
		engine:       engine,
		draftHandler: draftHandler,
	}
}

func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}

// Shutdown releases the Graph subscription before exit.
func (h *Handler) Shutdown() {
	h.draftHandler.Shutdown()
}
