package controllers

import (
	"net/http"

	"github.com/angelmondragon/sweetshop-backend/api/middleware"
	"github.com/angelmondragon/sweetshop-backend/api/validators"
	"github.com/angelmondragon/sweetshop-backend/internal/purchases"
	"github.com/angelmondragon/sweetshop-backend/internal/sweets"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
)

const maxFilterLen = 255

func actorFromRequest(r *http.Request) (purchases.Actor, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return purchases.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication required")
	}
	return purchases.Actor{UserID: identity.UserID, Role: identity.Role}, nil
}

func parseSweetFilter(r *http.Request) (sweets.Filter, error) {
	filter := sweets.Filter{
		Name:     validators.ParseQueryString(r, "name", maxFilterLen),
		Search:   validators.ParseQueryString(r, "search", maxFilterLen),
		Category: validators.ParseQueryString(r, "category", maxFilterLen),
	}
	var err error
	if filter.CategoryID, err = validators.ParseQueryUUID(r, "categoryId"); err != nil {
		return sweets.Filter{}, err
	}
	if filter.MinPrice, err = validators.ParseQueryDecimal(r, "minPrice"); err != nil {
		return sweets.Filter{}, err
	}
	if filter.MaxPrice, err = validators.ParseQueryDecimal(r, "maxPrice"); err != nil {
		return sweets.Filter{}, err
	}
	if filter.InStock, err = validators.ParseQueryBool(r, "inStock"); err != nil {
		return sweets.Filter{}, err
	}
	return filter, nil
}

func parseSweetListQuery(r *http.Request, maxLimit int) (sweets.ListQuery, error) {
	params, err := validators.ParsePagination(r, maxLimit)
	if err != nil {
		return sweets.ListQuery{}, err
	}
	filter, err := parseSweetFilter(r)
	if err != nil {
		return sweets.ListQuery{}, err
	}
	vis, err := validators.ParseVisibility(r)
	if err != nil {
		return sweets.ListQuery{}, err
	}
	return sweets.ListQuery{Params: params, Filter: filter, Visibility: vis}, nil
}

func parsePurchaseListQuery(r *http.Request, maxLimit int) (purchases.ListQuery, error) {
	params, err := validators.ParsePagination(r, maxLimit)
	if err != nil {
		return purchases.ListQuery{}, err
	}
	var filter purchases.Filter
	if filter.UserID, err = validators.ParseQueryUUID(r, "userId"); err != nil {
		return purchases.ListQuery{}, err
	}
	if filter.SweetID, err = validators.ParseQueryUUID(r, "sweetId"); err != nil {
		return purchases.ListQuery{}, err
	}
	if filter.StartDate, err = validators.ParseQueryDate(r, "startDate", false); err != nil {
		return purchases.ListQuery{}, err
	}
	if filter.EndDate, err = validators.ParseQueryDate(r, "endDate", true); err != nil {
		return purchases.ListQuery{}, err
	}
	return purchases.ListQuery{Params: params, Filter: filter}, nil
}
