package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingConfigService(t *testing.T) {
	testDB := setupTestDB(t)
	pt := seedProductType(t, testDB, "Shirts")
	svc := NewPricingConfigService(repository.NewPricingConfigRepository(testDB), repository.NewProductTypeRepository(testDB))

	_, err := svc.Effective(nil)
	assert.ErrorIs(t, err, ErrPricingConfigNotFound)

	_, err = svc.Create(PricingConfigInput{MinPrice: dec("50"), MaxPrice: dec("10")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Create(PricingConfigInput{MinPrice: dec("1"), ProductTypeID: uintPtr(9999)})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	global, err := svc.Create(PricingConfigInput{MinPrice: dec("1")})
	require.NoError(t, err)
	assert.Nil(t, global.MaxPrice)
	assert.Equal(t, "1.00", global.MinPrice)

	effective, err := svc.Effective(&pt.ID)
	require.NoError(t, err)
	assert.Equal(t, global.ID, effective.ID)

	typed, err := svc.Create(PricingConfigInput{MinPrice: dec("5"), MaxPrice: dec("500"), ProductTypeID: &pt.ID})
	require.NoError(t, err)

	effective, err = svc.Effective(&pt.ID)
	require.NoError(t, err)
	assert.Equal(t, typed.ID, effective.ID)
	require.NotNil(t, effective.MaxPrice)
	assert.Equal(t, "500.00", *effective.MaxPrice)

	updated, err := svc.Update(typed.ID, PricingConfigInput{MinPrice: dec("6"), ProductTypeID: &pt.ID})
	require.NoError(t, err)
	assert.Equal(t, "6.00", updated.MinPrice)
	assert.Nil(t, updated.MaxPrice)

	require.NoError(t, svc.Delete(typed.ID))
	assert.ErrorIs(t, svc.Delete(typed.ID), ErrPricingConfigNotFound)
	list, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeliveryOptionService(t *testing.T) {
	testDB := setupTestDB(t)
	svc := NewDeliveryOptionService(repository.NewDeliveryOptionRepository(testDB))

	express, err := svc.Create(DeliveryOptionInput{Name: "Express", Price: dec("12.50"), EstimatedDays: 1})
	require.NoError(t, err)
	assert.True(t, express.IsActive)
	_, err = svc.Create(DeliveryOptionInput{Name: "Pickup", Price: dec("0"), IsActive: boolPtr(false)})
	require.NoError(t, err)

	_, err = svc.Create(DeliveryOptionInput{Name: "Refund", Price: dec("-1")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	active, err := svc.List(true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	all, err := svc.List(false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Pickup", all[0].Name)

	require.NoError(t, svc.Delete(express.ID))
	_, err = svc.Get(express.ID)
	assert.ErrorIs(t, err, ErrDeliveryOptionNotFound)
}

func TestHomepageService_GetSectionResolvesProducts(t *testing.T) {
	testDB := setupTestDB(t)
	pt := seedProductType(t, testDB, "Merch")
	a := seedProduct(t, testDB, pt.ID, "A", "1.00", 1)
	b := seedProduct(t, testDB, pt.ID, "B", "1.00", 1)
	svc := NewHomepageService(repository.NewHomepageSettingRepository(testDB), repository.NewProductRepository(testDB))

	_, err := svc.Create(HomepageSettingInput{SectionName: "hero", ProductIDs: []uint{b.ID, 9999, a.ID}})
	require.NoError(t, err)
	_, err = svc.Create(HomepageSettingInput{SectionName: "hero"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	hidden, err := svc.Create(HomepageSettingInput{SectionName: "promo", SectionPosition: 1, IsActive: boolPtr(false)})
	require.NoError(t, err)

	section, err := svc.GetSection("hero", false)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, 9999, a.ID}, section.ProductIDs)
	require.Len(t, section.Products, 2)
	assert.Equal(t, b.ID, section.Products[0].ID)
	assert.Equal(t, a.ID, section.Products[1].ID)

	_, err = svc.GetSection("promo", false)
	assert.ErrorIs(t, err, ErrHomepageSettingNotFound)
	_, err = svc.GetSection("promo", true)
	assert.NoError(t, err)

	visible, err := svc.List(false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
	all, err := svc.List(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(hidden.ID))
	assert.ErrorIs(t, svc.Delete(hidden.ID), ErrHomepageSettingNotFound)
}

func TestMailingListService_SubscribeIsIdempotent(t *testing.T) {
	testDB := setupTestDB(t)
	svc := NewMailingListService(repository.NewMailingListRepository(testDB))

	first, created, err := svc.Subscribe(SubscribeInput{Email: "reader@example.com"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Subscribe(SubscribeInput{Email: " Reader@Example.com "})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	entries, page, err := svc.List(PageQuery{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.Unsubscribe(first.ID))
	assert.ErrorIs(t, svc.Unsubscribe(first.ID), ErrMailingListEntryNotFound)

	var rows int64
	require.NoError(t, testDB.Table("mailing_list").Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestContactService_Submit(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewContactService(mailer, "support@example.com")

	err := svc.Submit(context.Background(), ContactInput{
		Name: "Heidi", Email: "heidi@example.com", Subject: "Order", Message: "Where is my parcel?",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"support@example.com"}, mailer.sent[0].To)
	assert.Equal(t, "heidi@example.com", mailer.sent[0].ReplyTo)

	mailer.err = errors.New("smtp unavailable")
	err = svc.Submit(context.Background(), ContactInput{Name: "Heidi", Email: "heidi@example.com", Message: "Hello"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}
