package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/apa-portal/member-portal/internal/domain"
)

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

// CatalogErrorResponse is the bare error body of the public catalog endpoint.
type CatalogErrorResponse struct {
	Error string `json:"error"`
}

type AuthStatusResponse struct {
	Authenticated bool           `json:"authenticated"`
	Member        *MemberSession `json:"member,omitempty"`
}

type MemberSession struct {
	SessionId   string              `json:"sessionId"`
	MemberId    string              `json:"memberId"`
	DisplayName string              `json:"displayName"`
	Email       openapi_types.Email `json:"email"`
	IsAdmin     bool                `json:"isAdmin"`
	IssuedAt    time.Time           `json:"issuedAt"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}

type Member struct {
	MemberId      string              `json:"memberId"`
	DisplayName   string              `json:"displayName"`
	Email         openapi_types.Email `json:"email"`
	IsAdmin       bool                `json:"isAdmin"`
	IsActive      bool                `json:"isActive"`
	PointsBalance int                 `json:"pointsBalance"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type Product struct {
	ProductId       string                    `json:"productId"`
	Sku             string                    `json:"sku"`
	Name            string                    `json:"name"`
	Description     nullable.Nullable[string] `json:"description"`
	PriceCents      int64                     `json:"priceCents"`
	SampleAvailable bool                      `json:"sampleAvailable"`
	IsActive        bool                      `json:"isActive"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

type RewardType struct {
	RewardTypeId string                    `json:"rewardTypeId"`
	Name         string                    `json:"name"`
	Description  nullable.Nullable[string] `json:"description"`
	PointsCost   int                       `json:"pointsCost"`
	IsActive     bool                      `json:"isActive"`
}

type Voucher struct {
	Code         string    `json:"code"`
	RewardTypeId string    `json:"rewardTypeId"`
	PointsCost   int       `json:"pointsCost"`
	IssuedAt     time.Time `json:"issuedAt"`
}

type Order struct {
	OrderId        string    `json:"orderId"`
	Number         string    `json:"number"`
	Kind           string    `json:"kind"`
	MemberId       string    `json:"memberId"`
	ProductId      string    `json:"productId"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	CreatedAt      time.Time `json:"createdAt"`
}

type DashboardResponse struct {
	Member   Member    `json:"member"`
	Orders   []Order   `json:"orders"`
	Vouchers []Voucher `json:"vouchers"`
}

type LoginHintResponse struct {
	Action string   `json:"action"`
	Method string   `json:"method"`
	Fields []string `json:"fields"`
}

// --- requests ---

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PlaceOrderRequest struct {
	ProductId string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type SampleRequestRequest struct {
	ProductId string `json:"productId"`
}

type CreateMemberRequest struct {
	DisplayName   string              `json:"displayName"`
	Email         openapi_types.Email `json:"email"`
	Password      string              `json:"password"`
	IsAdmin       bool                `json:"isAdmin"`
	PointsBalance int                 `json:"pointsBalance"`
}

type UpdateMemberRequest struct {
	DisplayName   nullable.Nullable[string]              `json:"displayName,omitempty"`
	Email         nullable.Nullable[openapi_types.Email] `json:"email,omitempty"`
	Password      nullable.Nullable[string]              `json:"password,omitempty"`
	IsAdmin       nullable.Nullable[bool]                `json:"isAdmin,omitempty"`
	IsActive      nullable.Nullable[bool]                `json:"isActive,omitempty"`
	PointsBalance nullable.Nullable[int]                 `json:"pointsBalance,omitempty"`
}

type CreateProductRequest struct {
	Sku             string  `json:"sku"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	PriceCents      int64   `json:"priceCents"`
	SampleAvailable bool    `json:"sampleAvailable"`
}

type UpdateProductRequest struct {
	Sku             nullable.Nullable[string] `json:"sku,omitempty"`
	Name            nullable.Nullable[string] `json:"name,omitempty"`
	Description     nullable.Nullable[string] `json:"description,omitempty"`
	PriceCents      nullable.Nullable[int64]  `json:"priceCents,omitempty"`
	SampleAvailable nullable.Nullable[bool]   `json:"sampleAvailable,omitempty"`
	IsActive        nullable.Nullable[bool]   `json:"isActive,omitempty"`
}

type CreateRewardTypeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PointsCost  int     `json:"pointsCost"`
}

type UpdateRewardTypeRequest struct {
	Name        nullable.Nullable[string] `json:"name,omitempty"`
	Description nullable.Nullable[string] `json:"description,omitempty"`
	PointsCost  nullable.Nullable[int]    `json:"pointsCost,omitempty"`
	IsActive    nullable.Nullable[bool]   `json:"isActive,omitempty"`
}

// --- mapping ---

func memberSessionFromDomain(s domain.MemberSession) *MemberSession {
	return &MemberSession{
		SessionId:   string(s.SessionID),
		MemberId:    string(s.MemberID),
		DisplayName: s.DisplayName,
		Email:       openapi_types.Email(s.Email),
		IsAdmin:     s.IsAdmin,
		IssuedAt:    s.IssuedAt.UTC(),
		ExpiresAt:   s.ExpiresAt.UTC(),
	}
}

func memberFromDomain(m domain.Member) Member {
	return Member{
		MemberId:      string(m.ID),
		DisplayName:   m.DisplayName,
		Email:         openapi_types.Email(m.Email),
		IsAdmin:       m.IsAdmin,
		IsActive:      m.IsActive,
		PointsBalance: m.PointsBalance,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func membersFromDomain(ms []domain.Member) []Member {
	out := make([]Member, 0, len(ms))
	for _, m := range ms {
		out = append(out, memberFromDomain(m))
	}
	return out
}

func productFromDomain(p domain.Product) Product {
	return Product{
		ProductId:       string(p.ID),
		Sku:             p.SKU,
		Name:            p.Name,
		Description:     nullableString(p.Description),
		PriceCents:      p.PriceCents,
		SampleAvailable: p.SampleAvailable,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt.UTC(),
		UpdatedAt:       p.UpdatedAt.UTC(),
	}
}

func rewardTypesFromDomain(rts []domain.RewardType) []RewardType {
	out := make([]RewardType, 0, len(rts))
	for _, rt := range rts {
		out = append(out, rewardTypeFromDomain(rt))
	}
	return out
}

func rewardTypeFromDomain(rt domain.RewardType) RewardType {
	return RewardType{
		RewardTypeId: string(rt.ID),
		Name:         rt.Name,
		Description:  nullableString(rt.Description),
		PointsCost:   rt.PointsCost,
		IsActive:     rt.IsActive,
	}
}

func voucherFromDomain(v domain.Voucher) Voucher {
	return Voucher{
		Code:         v.Code,
		RewardTypeId: string(v.RewardTypeID),
		PointsCost:   v.PointsCost,
		IssuedAt:     v.IssuedAt.UTC(),
	}
}

func vouchersFromDomain(vs []domain.Voucher) []Voucher {
	out := make([]Voucher, 0, len(vs))
	for _, v := range vs {
		out = append(out, voucherFromDomain(v))
	}
	return out
}

func orderFromDomain(o domain.Order) Order {
	return Order{
		OrderId:        string(o.ID),
		Number:         o.Number,
		Kind:           string(o.Kind),
		MemberId:       string(o.MemberID),
		ProductId:      string(o.ProductID),
		Quantity:       o.Quantity,
		UnitPriceCents: o.UnitPriceCents,
		CreatedAt:      o.CreatedAt.UTC(),
	}
}

func ordersFromDomain(os []domain.Order) []Order {
	out := make([]Order, 0, len(os))
	for _, o := range os {
		out = append(out, orderFromDomain(o))
	}
	return out
}

// nullableString renders nil as an explicit JSON null.
func nullableString(p *string) nullable.Nullable[string] {
	var out nullable.Nullable[string]
	if p != nil {
		out.Set(*p)
	} else {
		out.SetNull()
	}
	return out
}

func optionalFromNullable[T any](n nullable.Nullable[T]) domain.Optional[T] {
	if !n.IsSpecified() {
		return domain.Unspecified[T]()
	}
	if n.IsNull() {
		return domain.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return domain.Unspecified[T]()
	}
	return domain.Some(v)
}

func optionalEmailFromNullable(n nullable.Nullable[openapi_types.Email]) domain.Optional[string] {
	o := optionalFromNullable(n)
	switch {
	case !o.IsSpecified():
		return domain.Unspecified[string]()
	case o.IsNull():
		return domain.Null[string]()
	default:
		return domain.Some(string(o.Value()))
	}
}
