package menu

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:menu_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.MenuSection{},
		&models.MenuItem{},
		&models.MenuItemVariant{},
		&models.OrderLine{},
	))
	svc, err := NewService(db)
	require.NoError(t, err)
	return svc, db
}

func TestMenuSectionAndItemLifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	section, err := svc.CreateSection(ctx, SectionInput{Name: "Desayunos", Position: 1, Active: true})
	require.NoError(t, err)

	_, err = svc.CreateSection(ctx, SectionInput{Name: "Desayunos"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())

	item, err := svc.CreateItem(ctx, ItemInput{
		SectionID: section.ID,
		Name:      "Empanada",
		UnitPrice: decimal.NewFromFloat(1.999),
		Available: true,
	})
	require.NoError(t, err)
	require.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(2.00)))

	err = svc.DeleteSection(ctx, section.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	require.NoError(t, svc.DeleteSection(ctx, section.ID))
}

func TestDeleteItemRemovesVariants(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	section, err := svc.CreateSection(ctx, SectionInput{Name: "Pizzas", Active: true})
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, ItemInput{SectionID: section.ID, Name: "Margarita", UnitPrice: decimal.NewFromFloat(9), Available: true})
	require.NoError(t, err)

	_, err = svc.AddVariant(ctx, item.ID, VariantInput{Name: "Familiar", UnitPrice: decimal.NewFromFloat(15)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))

	var variantCount int64
	require.NoError(t, db.Model(&models.MenuItemVariant{}).Count(&variantCount).Error)
	require.EqualValues(t, 0, variantCount)
}

func TestDeleteItemBlockedByOrderLineRefs(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	section, err := svc.CreateSection(ctx, SectionInput{Name: "Postres", Active: true})
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, ItemInput{SectionID: section.ID, Name: "Quesillo", UnitPrice: decimal.NewFromFloat(3), Available: true})
	require.NoError(t, err)

	line := models.OrderLine{
		OrderID:    uuid.New(),
		MenuItemID: &item.ID,
		Name:       item.Name,
		Quantity:   1,
		UnitPrice:  item.UnitPrice,
		Subtotal:   item.UnitPrice,
		Source:     enums.LineSourceMenu,
	}
	require.NoError(t, db.Create(&line).Error)

	err = svc.DeleteItem(ctx, item.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestItemRequiresExistingSection(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, ItemInput{SectionID: uuid.New(), Name: "Arepa", UnitPrice: decimal.NewFromFloat(2), Available: true})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
