package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/event"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

// InboxService stores enquiries and contact messages from the public site.
// Submissions are append-only.
type InboxService struct {
	enquiries *repositories.InboxRepository[models.Enquiry]
	contacts  *repositories.InboxRepository[models.Contact]
	products  *repositories.ProductRepository
	deps      Deps
}

func NewInboxService(d Deps) *InboxService {
	return &InboxService{
		enquiries: repositories.NewEnquiryRepository(d.DB),
		contacts:  repositories.NewContactRepository(d.DB),
		products:  repositories.NewProductRepository(d.DB),
		deps:      d,
	}
}

// SubmitEnquiry stores an enquiry. A product reference must point at a
// publicly visible product.
func (s *InboxService) SubmitEnquiry(ctx context.Context, in *requests.SubmitEnquiry) (*models.Enquiry, error) {
	e := in.Model()
	if e.ProductID != nil {
		_, err := s.products.Find(ctx, *e.ProductID, repositories.Public)
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Field("enquiry", "product_id", "The selected product does not exist.")
		}
		if err != nil {
			return nil, err
		}
	}
	if err := s.enquiries.Create(ctx, e); err != nil {
		return nil, err
	}
	s.received(ctx, "enquiry", e.ID, e)
	return e, nil
}

func (s *InboxService) SubmitContact(ctx context.Context, in *requests.SubmitContact) (*models.Contact, error) {
	c := in.Model()
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	s.received(ctx, "contact", c.ID, c)
	return c, nil
}

func (s *InboxService) Enquiries(ctx context.Context, q orm.Query) (orm.Result[models.Enquiry], error) {
	return s.enquiries.List(ctx, q)
}

func (s *InboxService) Enquiry(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	return s.enquiries.Find(ctx, id)
}

func (s *InboxService) Contacts(ctx context.Context, q orm.Query) (orm.Result[models.Contact], error) {
	return s.contacts.List(ctx, q)
}

func (s *InboxService) Contact(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	return s.contacts.Find(ctx, id)
}

func (s *InboxService) received(ctx context.Context, entity string, id uuid.UUID, payload interface{}) {
	s.deps.Events.Fire(ctx, event.Event{
		Name: event.InboxReceived, Entity: entity, ID: id.String(), Action: "create", Payload: payload,
	})
}
