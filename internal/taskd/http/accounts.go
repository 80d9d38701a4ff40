package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/service"
	"github.com/aussiebroadwan/taskd/pkg/httpx"
)

type AccountsHandler struct {
	AccountService *service.AccountService
}

type accountsResponse struct {
	Accounts []domain.AccountView `json:"accounts"`
}

// HandleMe returns the caller's own account.
//
//	@Summary	Current account
//	@Tags		Accounts
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	taskdsdk.Account
//	@Failure	401	{object}	taskdsdk.ErrorResponse
//	@Failure	404	{object}	taskdsdk.ErrorResponse	"Account was deleted after the token was issued"
//	@Router		/v1/accounts/me [get].
func (h *AccountsHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	a, err := h.AccountService.GetAccount(r.Context(), caller.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, a)
}

// HandleList lists every account.
//
//	@Summary	List accounts
//	@Tags		Accounts
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	taskdsdk.AccountsResponse
//	@Failure	401	{object}	taskdsdk.ErrorResponse
//	@Failure	403	{object}	taskdsdk.ErrorResponse	"Caller is not ADMIN"
//	@Router		/v1/accounts [get].
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.AccountService.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsResponse{Accounts: accounts})
}

// HandleGet fetches one account.
//
//	@Summary	Get account
//	@Tags		Accounts
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Account id"
//	@Success	200	{object}	taskdsdk.Account
//	@Failure	401	{object}	taskdsdk.ErrorResponse
//	@Failure	403	{object}	taskdsdk.ErrorResponse	"Caller is not ADMIN"
//	@Failure	404	{object}	taskdsdk.ErrorResponse
//	@Router		/v1/accounts/{id} [get].
func (h *AccountsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.AccountService.GetAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, a)
}
