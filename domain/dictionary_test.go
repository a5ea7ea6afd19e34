package domain

import "testing"

func TestMatchedCategoriesWholeWordOnly(t *testing.T) {
	d := New()
	matched := d.MatchedCategories("what is the waiting period for claims")
	if _, ok := matched[CategoryWaitingPeriods]; !ok {
		t.Fatal("expected waiting_periods to match")
	}
	if _, ok := matched[CategoryClaims]; !ok {
		t.Fatal("expected claims to match")
	}
	if _, ok := matched[CategoryPremiums]; ok {
		t.Fatal("did not expect premiums to match")
	}
}

func TestMatchedCategoriesRejectsSubstringOfLongerWord(t *testing.T) {
	d := New()
	matched := d.MatchedCategories("the claimant submitted paperwork")
	if _, ok := matched[CategoryClaims]; ok {
		t.Fatal("\"claimant\" must not match the \"claim\" surface form as a substring")
	}
}

func TestSynonymTableMapsSurfaceFormsToCanonicalToken(t *testing.T) {
	d := New()
	table := d.SynonymTable()
	canon, ok := table["ped"]
	if !ok {
		t.Fatal("expected \"ped\" to be a registered surface form")
	}
	if canon != "preexisting diseases" {
		t.Fatalf("expected canonical token \"preexisting diseases\", got %q", canon)
	}
}

func TestCategoriesReturnsStableOrder(t *testing.T) {
	d := New()
	cats := d.Categories()
	if len(cats) != len(AllCategories) {
		t.Fatalf("expected %d categories, got %d", len(AllCategories), len(cats))
	}
	if cats[0] != CategoryPreexistingDiseases {
		t.Fatalf("expected first category to be preexisting_diseases, got %s", cats[0])
	}
}
