package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"formflow/internal/app"
	"formflow/internal/config"
	"formflow/internal/logging"
	"formflow/internal/model"
	"formflow/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// forms go to the tenant of the first configured account
	if len(cfg.Users) == 0 {
		logger.Fatal("no users configured")
	}
	tenant := cfg.Users[0].TenantID

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close(context.Background())

	for _, in := range demoForms() {
		form, err := a.FormService.Create(ctx, tenant, "seed", in)
		if err != nil {
			logger.Fatal("failed to create form", zap.String("name", in.Name), zap.Error(err))
		}
		form, err = a.FormService.Publish(ctx, tenant, form.ID)
		if err != nil {
			logger.Fatal("failed to publish form", zap.String("name", in.Name), zap.Error(err))
		}
		logger.Info("seeded form",
			zap.String("form_id", form.ID),
			zap.String("name", form.Name),
			zap.Int("questions", form.Len()))
	}
}

func demoForms() []service.FormInput {
	return []service.FormInput{
		{
			Name:        "Account check",
			Description: "Choosing A ends the form right away; B asks two follow-ups.",
			Questions: []model.Question{
				{
					Text:      "Do you already have an account?",
					Type:      model.QuestionTypeSingleChoice,
					Options:   []string{"A", "B"},
					Branching: []model.BranchRule{{When: "A", Goto: model.JumpEnd}},
				},
				{Text: "What stopped you from signing up?", Type: model.QuestionTypeShortText, Required: true},
				{Text: "Anything else we should know?", Type: model.QuestionTypeShortText, Required: true},
			},
		},
		{
			Name:        "Smartphone launch feedback",
			Description: "Satisfaction survey with a detour for unhappy customers.",
			Questions: []model.Question{
				{
					Text:    "Which model did you purchase?",
					Type:    model.QuestionTypeSingleChoice,
					Options: []string{"Standard", "Pro", "Ultra"},
				},
				{
					Text:     "Overall satisfaction (1 to 5)",
					Type:     model.QuestionTypeInteger,
					Required: true,
					Branching: []model.BranchRule{
						{When: "1", Goto: model.To(2)},
						{When: "2", Goto: model.To(2)},
						{When: "4", Goto: model.To(3)},
						{When: "5", Goto: model.To(3)},
					},
				},
				{
					Text:     "What disappointed you?",
					Type:     model.QuestionTypeMultiChoice,
					Required: true,
					Options:  []string{"Battery", "Camera", "Price", "Software"},
				},
				{Text: "When did you buy it?", Type: model.QuestionTypeDate},
				{Text: "Email for follow-up", Type: model.QuestionTypeEmail},
			},
		},
	}
}
