package satellite

import (
	"testing"
	"time"
)

func TestHxmtHeRefTime(t *testing.T) {
	var s HxmtHe
	want := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := s.RefTime(); !got.Equal(want) {
		t.Errorf("RefTime() = %v, want %v", got, want)
	}
	if got := s.Name(); got != "HXMT/HE" {
		t.Errorf("Name() = %q, want HXMT/HE", got)
	}
}

func TestFermiGBMRefTime(t *testing.T) {
	var s FermiGBM
	want := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := s.RefTime(); !got.Equal(want) {
		t.Errorf("RefTime() = %v, want %v", got, want)
	}
}

func TestSvomGRMRefTime(t *testing.T) {
	var s SvomGRM
	want := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := s.RefTime(); !got.Equal(want) {
		t.Errorf("RefTime() = %v, want %v", got, want)
	}
}

func TestDistinctEpochs(t *testing.T) {
	var hxmt HxmtHe
	var fermi FermiGBM
	if hxmt.RefTime().Equal(fermi.RefTime()) {
		t.Error("HXMT-HE and Fermi-GBM must not share a reference epoch")
	}
}
