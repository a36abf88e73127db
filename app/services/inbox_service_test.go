package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/event"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
	"github.com/shashiranjanraj/catalogue/pkg/testkit"
	"github.com/shashiranjanraj/catalogue/pkg/workerpool"
)

func enquiry(productID *string) *requests.SubmitEnquiry {
	return &requests.SubmitEnquiry{
		Name:      "Asha Rao",
		Email:     " Asha@Example.com ",
		Company:   ptr("Rao Stores"),
		ProductID: productID,
		Message:   "Please send a quote for ten units.",
	}
}

func TestSubmitEnquiryValidatesProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	live := f.product(t, cat.ID, "Terminal", true)
	hidden := f.product(t, cat.ID, "Prototype", false)

	_, err := f.svc.Inbox.SubmitEnquiry(ctx, enquiry(ptr(uuid.NewString())))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, apperr.FieldsOf(err), "product_id")

	_, err = f.svc.Inbox.SubmitEnquiry(ctx, enquiry(ptr(hidden.ID.String())))
	assert.True(t, errors.Is(err, apperr.ErrValidation), "inactive products cannot be enquired about")

	e, err := f.svc.Inbox.SubmitEnquiry(ctx, enquiry(ptr(live.ID.String())))
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", e.Email)
	require.NotNil(t, e.ProductID)
	assert.Equal(t, live.ID, *e.ProductID)

	_, err = f.svc.Inbox.SubmitEnquiry(ctx, enquiry(nil))
	require.NoError(t, err)

	page, err := f.svc.Inbox.Enquiries(ctx, orm.Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Meta.Total)

	got, err := f.svc.Inbox.Enquiry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rao Stores", *got.Company)
}

func TestSubmitContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Inbox.SubmitContact(ctx, &requests.SubmitContact{
		Name: "Ravi", Email: "ravi@example.com", Phone: ptr("  "), Message: "Call me.",
	})
	require.NoError(t, err)
	assert.Nil(t, c.Phone, "blank optionals are stored as null")

	_, err = f.svc.Inbox.Contact(ctx, uuid.New())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestNotifierMailsStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sender := testkit.NewMailSender()
	pool := workerpool.New("mail-test", 2)
	t.Cleanup(pool.Shutdown)
	f.bus.Listen(event.InboxReceived, services.NewNotifier(sender, pool, "sales@example.com").Handle)

	_, err := f.svc.Inbox.SubmitEnquiry(ctx, enquiry(nil))
	require.NoError(t, err)
	_, err = f.svc.Inbox.SubmitContact(ctx, &requests.SubmitContact{
		Name: "Ravi", Email: "ravi@example.com", Subject: ptr("Support"), Message: "Call me.",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return sender.Sent() == 2 }, time.Second, 10*time.Millisecond)

	var subjects []string
	for _, m := range sender.Messages() {
		assert.Equal(t, []string{"sales@example.com"}, m.To)
		assert.True(t, m.HTML)
		assert.NoError(t, m.Err())
		subjects = append(subjects, m.Subject)
	}
	assert.ElementsMatch(t, []string{
		"New product enquiry from Asha Rao",
		"New contact message from Ravi",
	}, subjects)
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestNotifierFailureDoesNotReachSubmitter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sender := testkit.FailingMailSender(errors.New("smtp down"))
	pool := workerpool.New("mail-test", 1)
	t.Cleanup(pool.Shutdown)
	f.bus.Listen(event.InboxReceived, services.NewNotifier(sender, pool, "sales@example.com").Handle)

	e, err := f.svc.Inbox.SubmitEnquiry(ctx, enquiry(nil))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)

	require.Eventually(t, func() bool { return sender.Sent() == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, sender.Messages()[0].Body, "ten units")
}

func TestNotifierWithoutRecipientsIsSilent(t *testing.T) {
	sender := testkit.NewMailSender()
	pool := workerpool.New("mail-test", 1)
	defer pool.Shutdown()

	services.NewNotifier(sender, pool).Handle(context.Background(), event.Event{Name: event.InboxReceived})
	pool.Shutdown()
	assert.Zero(t, sender.Sent())
}
