package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/apa-portal/member-portal/internal/domain"
)

type orderResponse struct {
	Order Order `json:"order"`
}

type ordersResponse struct {
	Orders []Order `json:"orders"`
}

type voucherResponse struct {
	Voucher Voucher `json:"voucher"`
}

type vouchersResponse struct {
	Vouchers []Voucher `json:"vouchers"`
}

func (s *Server) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	var body PlaceOrderRequest
	if !decodeBody(w, r, &body) {
		return
	}
	body.ProductId = strings.TrimSpace(body.ProductId)

	s.idempotent(w, r, sess.MemberID, "/api/orders", body, func() (any, error) {
		o, err := s.Orders.PlaceOrder(r.Context(), sess.MemberID, domain.ProductID(body.ProductId), body.Quantity)
		if err != nil {
			return nil, err
		}
		return orderResponse{Order: orderFromDomain(o)}, nil
	})
}

func (s *Server) RequestSample(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	var body SampleRequestRequest
	if !decodeBody(w, r, &body) {
		return
	}
	body.ProductId = strings.TrimSpace(body.ProductId)

	s.idempotent(w, r, sess.MemberID, "/api/sample-requests", body, func() (any, error) {
		o, err := s.Orders.RequestSample(r.Context(), sess.MemberID, domain.ProductID(body.ProductId))
		if err != nil {
			return nil, err
		}
		return orderResponse{Order: orderFromDomain(o)}, nil
	})
}

func (s *Server) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	ords, err := s.Orders.ListOrdersForMember(r.Context(), sess.MemberID)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: ordersFromDomain(ords)})
}

func (s *Server) RedeemReward(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	rewardTypeID := domain.RewardTypeID(chi.URLParam(r, "rewardTypeId"))
	v, err := s.Rewards.Redeem(r.Context(), sess.MemberID, rewardTypeID)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, voucherResponse{Voucher: voucherFromDomain(v)})
}

func (s *Server) ListMyVouchers(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	vs, err := s.Rewards.ListVouchers(r.Context(), sess.MemberID)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, vouchersResponse{Vouchers: vouchersFromDomain(vs)})
}
