// AngelaMos | 2026
// messages.go

// Package i18n holds the localized API message catalogs. English is the
// default; catalogs are selected per request by the lang header middleware.
package i18n

type Messages struct {
	InternalError     string
	Unauthorized      string
	NoTokenProvided   string
	NotAuthorized     string
	TokenAnotherUser  string
	UserNotFound      string
	UserIDMissing     string
	UserRequired      string
	UserInvalid       string
	UserCreating      string
	UserUpdating      string
	UserHasNoPages    string
	UserPageOwnerGone string
	PageRequired      string
	PageIDMissing     string
	PageInvalid       string
	PageCreating      string
	PageUpdating      string
	PageDeleting      string
	PageNotFound      string
	PageURLExists     string
	PageQuotaReached  string
	URLMissing        string
	PageDeleted       string
	ClicksRegistered  string
	UserDeleted       string
	EmailOrAuthID     string
}

var EN = Messages{
	InternalError:     "Internal server error.",
	Unauthorized:      "Not authorized.",
	NoTokenProvided:   "No token provided.",
	NotAuthorized:     "Not authorized.",
	TokenAnotherUser:  "Token belongs to another user.",
	UserNotFound:      "User not found.",
	UserIDMissing:     "User ID missing.",
	UserRequired:      "User required.",
	UserInvalid:       "User invalid.",
	UserCreating:      "Error creating user.",
	UserUpdating:      "Error updating user.",
	UserHasNoPages:    "User has no pages.",
	UserPageOwnerGone: "User associated to page doesn't exist.",
	PageRequired:      "Page required.",
	PageIDMissing:     "Page ID missing.",
	PageInvalid:       "Page invalid.",
	PageCreating:      "Error creating page.",
	PageUpdating:      "Error updating page.",
	PageDeleting:      "Error deleting page.",
	PageNotFound:      "Page not found.",
	PageURLExists:     "URL already exist.",
	PageQuotaReached:  "Page limit reached for current plan.",
	URLMissing:        "URL missing in params.",
	PageDeleted:       "Page successfully deleted.",
	ClicksRegistered:  "Component clicks registered.",
	UserDeleted:       "User successfully deleted.",
	EmailOrAuthID:     "Email or auth ID missing or invalid.",
}

var PT = Messages{
	InternalError:     "Erro interno do servidor.",
	Unauthorized:      "Não autorizado.",
	NoTokenProvided:   "Nenhum token fornecido.",
	NotAuthorized:     "Não autorizado.",
	TokenAnotherUser:  "Token pertence a outro usuário.",
	UserNotFound:      "Usuário não encontrado.",
	UserIDMissing:     "ID do usuário ausente.",
	UserRequired:      "Usuário obrigatório.",
	UserInvalid:       "Usuário inválido.",
	UserCreating:      "Erro ao criar usuário.",
	UserUpdating:      "Erro ao atualizar usuário.",
	UserHasNoPages:    "Usuário não possui páginas.",
	UserPageOwnerGone: "Usuário associado à página não existe.",
	PageRequired:      "Página obrigatória.",
	PageIDMissing:     "ID da página ausente.",
	PageInvalid:       "Página inválida.",
	PageCreating:      "Erro ao criar página.",
	PageUpdating:      "Erro ao atualizar página.",
	PageDeleting:      "Erro ao excluir página.",
	PageNotFound:      "Página não encontrada.",
	PageURLExists:     "URL já existe.",
	PageQuotaReached:  "Limite de páginas atingido para o plano atual.",
	URLMissing:        "URL ausente nos parâmetros.",
	PageDeleted:       "Página excluída com sucesso.",
	ClicksRegistered:  "Cliques do componente registrados.",
	UserDeleted:       "Usuário excluído com sucesso.",
	EmailOrAuthID:     "Email ou auth ID ausente ou inválido.",
}

var catalogs = map[string]Messages{
	"en": EN,
	"pt": PT,
}

// ForLang returns the catalog for lang, falling back to English.
func ForLang(lang string) Messages {
	if msgs, ok := catalogs[lang]; ok {
		return msgs
	}
	return EN
}
