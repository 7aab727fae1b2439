package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/prefab-leads/internal/entity"
	"github.com/xavierca1/prefab-leads/internal/infra/queue"
)

const LeadOriginWebsite = "WEBSITE_OFFER_FORM"

type CaptureLeadUseCase struct {
	Store    LeadStoreInterface
	Catalog  CatalogReader
	Queue    QueueProducerInterface
	Notifier LeadNotifier
	Log      logrus.FieldLogger

	// SubmitDelay is the decorative pause after a successful write, kept from
	// the browser site. Zero disables it.
	SubmitDelay time.Duration

	// Clock bounds the production month a customer may reserve.
	Clock func() time.Time

	// background runs the fire-and-forget side effects; tests swap it for a
	// synchronous call.
	background func(func())
}

func NewCaptureLeadUseCase(
	store LeadStoreInterface,
	catalog CatalogReader,
	producer QueueProducerInterface,
	notifier LeadNotifier,
	log logrus.FieldLogger,
	submitDelay time.Duration,
) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{
		Store:       store,
		Catalog:     catalog,
		Queue:       producer,
		Notifier:    notifier,
		Log:         log,
		SubmitDelay: submitDelay,
		Clock:       time.Now,
		background:  func(fn func()) { go fn() },
	}
}

// RunSideEffectsInline makes notification and event publishing synchronous.
func (uc *CaptureLeadUseCase) RunSideEffectsInline() {
	uc.background = func(fn func()) { fn() }
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	input = NormalizeCaptureLeadInput(input)

	errs := ValidateCaptureLeadInput(input)
	if verr := ValidatePreferredMonth(input.PreferredMonth, uc.Clock()); verr != nil {
		errs = append(errs, *verr)
	}
	if len(errs) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: validationMessage(errs),
		}
	}

	productID, productName, err := uc.resolveProduct(input)
	if err != nil {
		return nil, err
	}

	lead, err := uc.Store.Append(ctx, entity.LeadCandidate{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Message:        input.Message,
		Configuration:  input.Configuration,
		TotalPrice:     input.TotalPrice,
		ReserveSlot:    input.ReserveSlot,
		PreferredMonth: input.PreferredMonth,
	})
	if err != nil {
		return nil, &TechnicalError{
			Code:    "STORAGE_ERROR",
			Message: "failed to store lead",
			Err:     err,
		}
	}

	uc.afterCapture(*lead, productID, productName)

	// The lead is already stored; a cancelled request only cuts the pause.
	if err := Pause(ctx, uc.SubmitDelay); err != nil {
		uc.Log.WithField("lead_id", lead.ID).Debug("submission delay cancelled")
	}

	return &CaptureLeadOutput{
		ID:        lead.ID,
		Status:    lead.Status,
		CreatedAt: lead.CreatedAt,
		Msg:       "Your request has been submitted successfully. We'll be in touch soon!",
	}, nil
}

// resolveProduct names the house model of the offer. An explicit model must
// be in the catalog. Without one, a floor plan id that happens to be a model
// id is used for the name; any other floor plan id is kept as is.
func (uc *CaptureLeadUseCase) resolveProduct(input CaptureLeadInput) (string, string, error) {
	if input.Model == "" {
		if uc.Catalog != nil {
			if product, err := uc.Catalog.FindByID(input.Configuration.FloorPlan); err == nil {
				return product.ID, product.Name, nil
			}
		}
		return input.Configuration.FloorPlan, input.Configuration.FloorPlan, nil
	}

	if uc.Catalog == nil {
		return input.Model, input.Model, nil
	}
	product, err := uc.Catalog.FindByID(input.Model)
	if err != nil {
		return "", "", &DomainError{
			Code:    "PRODUCT_NOT_FOUND",
			Message: "unknown model: " + input.Model,
		}
	}
	return product.ID, product.Name, nil
}

func (uc *CaptureLeadUseCase) afterCapture(lead entity.Lead, productID, productName string) {
	if uc.Queue == nil && uc.Notifier == nil {
		return
	}

	uc.background(func() {
		log := uc.Log.WithField("lead_id", lead.ID)

		if uc.Notifier != nil {
			if err := uc.Notifier.SendNewLead(lead, productName); err != nil {
				log.WithError(err).Warn("⚠️ sales notification not sent")
			}
		}

		if uc.Queue != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			payload := queue.LeadCapturedPayload{
				LeadID:         lead.ID,
				FirstName:      lead.FirstName,
				LastName:       lead.LastName,
				Email:          lead.Email,
				Phone:          lead.Phone,
				ProductID:      productID,
				ProductName:    productName,
				TotalPrice:     lead.TotalPrice,
				ReserveSlot:    lead.ReserveSlot,
				PreferredMonth: lead.PreferredMonth,
				CreatedAt:      lead.CreatedAt,
				Origin:         LeadOriginWebsite,
			}
			if err := uc.Queue.PublishLeadCaptured(ctx, payload); err != nil {
				log.WithError(err).Warn("⚠️ lead stored but event not published")
			}
		}
	})
}

// Pause waits for d or until ctx is done, whichever comes first.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
