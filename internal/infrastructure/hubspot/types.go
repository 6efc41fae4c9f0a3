package hubspot

import "encoding/json"

// Formas explícitas de las respuestas del CRM. La normalización de los campos
// con variantes (toObjectId vs to.id en asociaciones v4) vive aquí, en la
// frontera del cliente, y no en cada call site.

// Object un objeto CRM genérico (company, quote, line_item, product, deal).
type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// Prop devuelve una property, o "" si no viene en la respuesta.
func (o Object) Prop(name string) string {
	if o.Properties == nil {
		return ""
	}
	return o.Properties[name]
}

// associationEdge un extremo de asociación v4. La API devuelve según la
// versión del endpoint toObjectId (numérico) o to.id (string);
// ToID() resuelve ambas variantes.
type associationEdge struct {
	ToObjectID json.Number `json:"toObjectId"`
	To         struct {
		ID string `json:"id"`
	} `json:"to"`
}

func (e associationEdge) ToID() string {
	if s := e.ToObjectID.String(); s != "" {
		return s
	}
	return e.To.ID
}

type associationList struct {
	Results []associationEdge `json:"results"`
}

type batchReadRequest struct {
	Properties []string     `json:"properties"`
	Inputs     []batchInput `json:"inputs"`
}

type batchInput struct {
	ID string `json:"id"`
}

type batchReadResult struct {
	Results []Object `json:"results"`
}

// Owner un propietario (comercial) del portal.
type Owner struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type ownersResult struct {
	Results []Owner `json:"results"`
}

type searchRequest struct {
	FilterGroups []filterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties"`
	Limit        int           `json:"limit"`
}

type filterGroup struct {
	Filters []filter `json:"filters"`
}

type filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchResult struct {
	Results []Object `json:"results"`
}

// associationSpec tipo de asociación HUBSPOT_DEFINED para el PUT v4 y para
// las asociaciones declaradas inline al crear un objeto.
type associationSpec struct {
	AssociationCategory string `json:"associationCategory"`
	AssociationTypeID   int    `json:"associationTypeId"`
}

type putAssociationBody struct {
	Types []associationSpec `json:"types"`
}

// NoteAssociation destino de la nota (quote y/o deal) con su tipo.
type NoteAssociation struct {
	ToID   string
	TypeID int
}

type createObjectBody struct {
	Properties   map[string]string   `json:"properties"`
	Associations []inlineAssociation `json:"associations,omitempty"`
}

type inlineAssociation struct {
	To struct {
		ID string `json:"id"`
	} `json:"to"`
	Types []associationSpec `json:"types"`
}
