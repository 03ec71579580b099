package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/apa-portal/member-portal/internal/app/members"
	"github.com/apa-portal/member-portal/internal/app/products"
	"github.com/apa-portal/member-portal/internal/app/rewards"
	"github.com/apa-portal/member-portal/internal/domain"
)

type memberResponse struct {
	Member Member `json:"member"`
}

type membersResponse struct {
	Members []Member `json:"members"`
}

type productResponse struct {
	Product Product `json:"product"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

type rewardTypeResponse struct {
	RewardType RewardType `json:"rewardType"`
}

type rewardTypesResponse struct {
	RewardTypes []RewardType `json:"rewardTypes"`
}

// includeInactive parses ?includeInactive=true; anything unparsable counts as false.
func includeInactive(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("includeInactive"))
	return err == nil && v
}

// --- members ---

func (s *Server) AdminListMembers(w http.ResponseWriter, r *http.Request) {
	ms, err := s.Members.ListMembers(r.Context(), includeInactive(r))
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, membersResponse{Members: membersFromDomain(ms)})
}

func (s *Server) AdminSearchMembers(w http.ResponseWriter, r *http.Request) {
	ms, err := s.Members.SearchMembers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, membersResponse{Members: membersFromDomain(ms)})
}

func (s *Server) AdminCreateMember(w http.ResponseWriter, r *http.Request) {
	var body CreateMemberRequest
	if !decodeBody(w, r, &body) {
		return
	}
	m, err := s.Members.CreateMember(r.Context(), members.CreateMemberInput{
		DisplayName:   body.DisplayName,
		Email:         string(body.Email),
		Password:      body.Password,
		IsAdmin:       body.IsAdmin,
		PointsBalance: body.PointsBalance,
	})
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberResponse{Member: memberFromDomain(m)})
}

func (s *Server) AdminGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.Members.GetMember(r.Context(), domain.MemberID(chi.URLParam(r, "memberId")))
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, memberResponse{Member: memberFromDomain(m)})
}

func (s *Server) AdminUpdateMember(w http.ResponseWriter, r *http.Request) {
	var body UpdateMemberRequest
	if !decodeBody(w, r, &body) {
		return
	}
	m, err := s.Members.UpdateMember(r.Context(), domain.MemberID(chi.URLParam(r, "memberId")), members.UpdateMemberInput{
		DisplayName:   optionalFromNullable(body.DisplayName),
		Email:         optionalEmailFromNullable(body.Email),
		Password:      optionalFromNullable(body.Password),
		IsAdmin:       optionalFromNullable(body.IsAdmin),
		IsActive:      optionalFromNullable(body.IsActive),
		PointsBalance: optionalFromNullable(body.PointsBalance),
	})
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, memberResponse{Member: memberFromDomain(m)})
}

func (s *Server) AdminDeactivateMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.Members.DeactivateMember(r.Context(), domain.MemberID(chi.URLParam(r, "memberId")))
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, memberResponse{Member: memberFromDomain(m)})
}

// --- products ---

func (s *Server) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := s.Products.ListProducts(r.Context(), includeInactive(r))
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, productFromDomain(p))
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: out})
}

func (s *Server) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var body CreateProductRequest
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := s.Products.CreateProduct(r.Context(), products.CreateProductInput{
		SKU:             body.Sku,
		Name:            body.Name,
		Description:     body.Description,
		PriceCents:      body.PriceCents,
		SampleAvailable: body.SampleAvailable,
	})
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, productResponse{Product: productFromDomain(p)})
}

func (s *Server) AdminGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.Products.GetProduct(r.Context(), domain.ProductID(chi.URLParam(r, "productId")))
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Product: productFromDomain(p)})
}

func (s *Server) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var body UpdateProductRequest
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := s.Products.UpdateProduct(r.Context(), domain.ProductID(chi.URLParam(r, "productId")), products.UpdateProductInput{
		SKU:             optionalFromNullable(body.Sku),
		Name:            optionalFromNullable(body.Name),
		Description:     optionalFromNullable(body.Description),
		PriceCents:      optionalFromNullable(body.PriceCents),
		SampleAvailable: optionalFromNullable(body.SampleAvailable),
		IsActive:        optionalFromNullable(body.IsActive),
	})
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Product: productFromDomain(p)})
}

func (s *Server) AdminDeactivateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.Products.DeactivateProduct(r.Context(), domain.ProductID(chi.URLParam(r, "productId")))
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Product: productFromDomain(p)})
}

// --- reward types ---

func (s *Server) AdminListRewardTypes(w http.ResponseWriter, r *http.Request) {
	rts, err := s.Rewards.ListRewardTypes(r.Context(), includeInactive(r))
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rewardTypesResponse{RewardTypes: rewardTypesFromDomain(rts)})
}

func (s *Server) AdminCreateRewardType(w http.ResponseWriter, r *http.Request) {
	var body CreateRewardTypeRequest
	if !decodeBody(w, r, &body) {
		return
	}
	rt, err := s.Rewards.CreateRewardType(r.Context(), rewards.CreateRewardTypeInput{
		Name:        body.Name,
		Description: body.Description,
		PointsCost:  body.PointsCost,
	})
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rewardTypeResponse{RewardType: rewardTypeFromDomain(rt)})
}

func (s *Server) AdminUpdateRewardType(w http.ResponseWriter, r *http.Request) {
	var body UpdateRewardTypeRequest
	if !decodeBody(w, r, &body) {
		return
	}
	rt, err := s.Rewards.UpdateRewardType(r.Context(), domain.RewardTypeID(chi.URLParam(r, "rewardTypeId")), rewards.UpdateRewardTypeInput{
		Name:        optionalFromNullable(body.Name),
		Description: optionalFromNullable(body.Description),
		PointsCost:  optionalFromNullable(body.PointsCost),
		IsActive:    optionalFromNullable(body.IsActive),
	})
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rewardTypeResponse{RewardType: rewardTypeFromDomain(rt)})
}

// --- orders ---

func (s *Server) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	ords, err := s.Orders.ListOrders(r.Context())
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: ordersFromDomain(ords)})
}
