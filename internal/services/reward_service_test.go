package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/derrickhua/achieve-arcade-sub000/internal/testutil"
	"github.com/google/uuid"
)

func seedCatalog(t *testing.T, svc *services.RewardService) {
	t.Helper()
	for _, r := range []dto.CreateRewardRequest{
		{Name: "Wooden sword", Icon: "sword", ChestType: models.ChestWood},
		{Name: "Steel shield", Icon: "shield", ChestType: models.ChestMetal},
		{Name: "Golden crown", Icon: "crown", ChestType: models.ChestGold},
	} {
		if _, err := svc.CreateReward(&r); err != nil {
			t.Fatalf("seeding %q: %v", r.Name, err)
		}
	}
}

func TestCreateReward_Validation(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewRewardService(db)

	_, err := svc.CreateReward(&dto.CreateRewardRequest{Name: "Mystery", ChestType: "Diamond"})
	if !errors.Is(err, services.ErrInvalidChest) {
		t.Errorf("expected ErrInvalidChest, got %v", err)
	}
}

func TestPurchaseChest_DebitsAndRecords(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewRewardService(db)
	seedCatalog(t, svc)
	user := createTestUser(t, db, 60)

	resp, err := svc.PurchaseChest(user.ID, models.ChestGold)
	if err != nil {
		t.Fatalf("purchasing chest: %v", err)
	}
	if resp.CoinsSpent != 50 {
		t.Errorf("expected gold chest to cost 50, got %d", resp.CoinsSpent)
	}
	if resp.Balance != 10 {
		t.Errorf("expected balance 10, got %d", resp.Balance)
	}
	if resp.Name == "" {
		t.Error("expected a drawn reward")
	}

	owned, err := svc.GetOwnedRewards(user.ID)
	if err != nil {
		t.Fatalf("fetching owned rewards: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("expected 1 owned reward, got %d", len(owned))
	}
	if owned[0].RewardID != resp.RewardID {
		t.Errorf("owned reward %s does not match response %s", owned[0].RewardID, resp.RewardID)
	}
	if owned[0].ChestType != models.ChestGold {
		t.Errorf("expected purchase recorded against the gold chest, got %s", owned[0].ChestType)
	}
}

func TestPurchaseChest_InsufficientFunds(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewRewardService(db)
	seedCatalog(t, svc)
	user := createTestUser(t, db, 9)

	_, err := svc.PurchaseChest(user.ID, models.ChestWood)
	if !errors.Is(err, services.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := coinBalance(t, db, user.ID); got != 9 {
		t.Errorf("failed purchase must not move the balance, got %d", got)
	}

	var count int64
	db.Model(&models.OwnedReward{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("failed purchase must not grant a reward, got %d", count)
	}
}

func TestPurchaseChest_InvalidType(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewRewardService(db)
	user := createTestUser(t, db, 100)

	_, err := svc.PurchaseChest(user.ID, "Cardboard")
	if !errors.Is(err, services.ErrInvalidChest) {
		t.Errorf("expected ErrInvalidChest, got %v", err)
	}
}

func TestPurchaseChest_EmptyCatalogRollsBackDebit(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewRewardService(db)
	user := createTestUser(t, db, 100)

	_, err := svc.PurchaseChest(user.ID, models.ChestWood)
	if !errors.Is(err, services.ErrEmptyChestPool) {
		t.Fatalf("expected ErrEmptyChestPool, got %v", err)
	}
	if got := coinBalance(t, db, user.ID); got != 100 {
		t.Errorf("expected the debit to roll back, got %d", got)
	}
}

func TestPurchaseChest_DrawFallsBackAcrossTiers(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewRewardService(db)
	// Only a gold-tier reward exists; every wood chest draw must fall back
	// to it rather than fail.
	if _, err := svc.CreateReward(&dto.CreateRewardRequest{
		Name: "Golden crown", Icon: "crown", ChestType: models.ChestGold,
	}); err != nil {
		t.Fatalf("seeding reward: %v", err)
	}
	user := createTestUser(t, db, 100)

	for i := 0; i < 5; i++ {
		resp, err := svc.PurchaseChest(user.ID, models.ChestWood)
		if err != nil {
			t.Fatalf("purchase %d: %v", i+1, err)
		}
		if resp.Name != "Golden crown" {
			t.Errorf("purchase %d: expected the only catalog entry, got %q", i+1, resp.Name)
		}
	}

	if got := coinBalance(t, db, user.ID); got != 50 {
		t.Errorf("expected 5 wood chests to cost 50 total, got %d", got)
	}
}

func TestPurchaseChest_ConcurrentDraws(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewRewardService(db)
	seedCatalog(t, svc)

	const buyers = 8
	users := make([]models.User, buyers)
	for i := range users {
		users[i] = createTestUser(t, db, 10)
	}

	// One purchase per goroutine; the draw path must be safe to share.
	errs := make(chan error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			_, err := svc.PurchaseChest(userID, models.ChestWood)
			errs <- err
		}(users[i].ID)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent purchase failed: %v", err)
		}
	}

	var owned int64
	if err := db.Model(&models.OwnedReward{}).Count(&owned).Error; err != nil {
		t.Fatalf("counting owned rewards: %v", err)
	}
	if owned != buyers {
		t.Errorf("expected %d owned rewards, got %d", buyers, owned)
	}
}
