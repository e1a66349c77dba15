package service_test

import (
	"testing"

	"github.com/nutrilog/nutrilog/internal/service"
)

func TestSetProfileUpsert(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	age, weight, height := 30, 70.0, 175.0
	if err := service.SetProfile(db, service.SetProfileInput{
		UserID:        testUser,
		Age:           &age,
		Sex:           "Male",
		WeightKg:      &weight,
		HeightCm:      &height,
		ActivityLevel: "moderate",
		PrimaryGoal:   "maintain",
	}); err != nil {
		t.Fatalf("set profile: %v", err)
	}

	p, err := service.GetProfile(db, testUser)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil {
		t.Fatal("expected stored profile")
	}
	if p.Sex != "male" {
		t.Fatalf("sex should be lowercased, got %q", p.Sex)
	}
	if p.Age == nil || *p.Age != 30 || p.WeightKg == nil || *p.WeightKg != 70 {
		t.Fatalf("unexpected profile %+v", p)
	}
	if !p.Complete() {
		t.Fatal("profile with age/sex/weight/height should be complete")
	}

	newWeight := 68.5
	if err := service.SetProfile(db, service.SetProfileInput{
		UserID:   testUser,
		Age:      &age,
		Sex:      "male",
		WeightKg: &newWeight,
		HeightCm: &height,
		DietType: "keto",
	}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	p, err = service.GetProfile(db, testUser)
	if err != nil {
		t.Fatalf("get updated profile: %v", err)
	}
	if *p.WeightKg != 68.5 || p.DietType != "keto" {
		t.Fatalf("update did not replace fields: %+v", p)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM user_profiles WHERE user_id = ?`, testUser).Scan(&count); err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single upserted row, got %d", count)
	}
}

func TestGetProfileMissingIsNil(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	p, err := service.GetProfile(db, testUser)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil for missing profile, got %+v", p)
	}
}

func TestSetProfilePartialIsIncomplete(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	weight := 82.0
	if err := service.SetProfile(db, service.SetProfileInput{
		UserID:   testUser,
		WeightKg: &weight,
	}); err != nil {
		t.Fatalf("set partial profile: %v", err)
	}

	p, err := service.GetProfile(db, testUser)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil {
		t.Fatal("expected stored partial profile")
	}
	if p.Age != nil {
		t.Fatalf("age should be unset, got %+v", p)
	}
	if p.Complete() {
		t.Fatal("partial profile must not be complete")
	}
}

func TestSetProfileValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	bad := -5
	if err := service.SetProfile(db, service.SetProfileInput{UserID: testUser, Age: &bad}); err == nil {
		t.Fatal("expected error for negative age")
	}
	if err := service.SetProfile(db, service.SetProfileInput{UserID: "not-a-uuid"}); err == nil {
		t.Fatal("expected error for invalid user id")
	}
}
