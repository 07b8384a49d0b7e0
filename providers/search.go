package providers

import (
	"net/http"
	"net/url"
	"strconv"
)

// ProductSearchQuery builds Magento searchCriteria parameters. A non-empty
// search becomes two LIKE filters on sku and name sharing filter group 0, which
// Magento combines with OR.
func ProductSearchQuery(page, pageSize int, search string) url.Values {
	q := url.Values{}
	q.Set("searchCriteria[pageSize]", strconv.Itoa(pageSize))
	q.Set("searchCriteria[currentPage]", strconv.Itoa(page))

	if search != "" {
		like := "%" + search + "%"
		for i, field := range []string{"sku", "name"} {
			prefix := "searchCriteria[filter_groups][0][filters][" + strconv.Itoa(i) + "]"
			q.Set(prefix+"[field]", field)
			q.Set(prefix+"[value]", like)
			q.Set(prefix+"[condition_type]", "like")
		}
	}
	return q
}

// ProductsRequest is the GET /products call for one page in one store scope.
func ProductsRequest(storeCode string, page, pageSize int, search string) Request {
	return Request{
		Method:    http.MethodGet,
		Endpoint:  "/products",
		Query:     ProductSearchQuery(page, pageSize, search),
		StoreCode: storeCode,
	}
}
