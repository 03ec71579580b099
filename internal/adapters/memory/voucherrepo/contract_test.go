package voucherrepo

import (
	"testing"

	"github.com/apa-portal/member-portal/internal/adapters/contracttest"
	voucherrepoport "github.com/apa-portal/member-portal/internal/ports/out/voucherrepo"
)

func TestContract_VoucherRepo(t *testing.T) {
	contracttest.RunVoucherRepo(t, func(t *testing.T) (voucherrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
