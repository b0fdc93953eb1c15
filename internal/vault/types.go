package vault

import (
	"github.com/florisjonkman/Zobioweb/internal/slotaddr"
)

// Project is one CDD Vault project the operator may scan into.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ValidationResult reports the three vault checks for one scanned
// barcode. The facets are ordered: a barcode missing from the vault
// leaves the remaining facets false, and only InVault && InProject &&
// StatusOK makes the scan acceptable.
type ValidationResult struct {
	InVault   bool
	InProject bool
	StatusOK  bool

	// Status is the vial's current vault status when InVault.
	Status string
	// OtherProject names the project the vial actually belongs to when
	// !InProject.
	OtherProject string
	// Location is the vial's stored slot when the vault knows one.
	Location slotaddr.Coordinate
	// ContainerBarcode and ContainerType describe the container the vial
	// sits in, when recorded.
	ContainerBarcode string
	ContainerType    string
}

// OK reports whether the scan passed every check.
func (r ValidationResult) OK() bool {
	return r.InVault && r.InProject && r.StatusOK
}

// LastLocationResult is the folded last-occupied slot of a project.
// ContainerType and ContainerBarcode are filled when the vault records
// them for the last-placed vial.
type LastLocationResult struct {
	HasLocation      bool
	Project          string
	Location         slotaddr.Coordinate
	ContainerType    string
	ContainerBarcode string
}

// SubmitRecord is one scanned vial in a submission batch. ID is the
// record's position in the scan list; the backend resolves the vault
// batch from the barcode itself.
type SubmitRecord struct {
	ID        int
	Barcode   string
	Box       int
	SlotLabel string
	Username  string
	FullName  string
}

// FailedRecord describes one vial the backend could not update.
type FailedRecord struct {
	Barcode string
	Status  string
	Reason  string
}

// SubmitResult is the outcome of a batch submission. Success is true
// only when every record was accepted.
type SubmitResult struct {
	Success bool
	Failed  []FailedRecord
}

// envelope is the backend's response wrapper.
type envelope struct {
	Message string `json:"message"`
}

type projectsEnvelope struct {
	Message string `json:"message"`
	Output  struct {
		Projects []Project `json:"projects"`
	} `json:"output"`
}

// wireVial mirrors the vial fields the backend copies out of CDD Vault.
type wireVial struct {
	BatchID          int64  `json:"id"`
	Barcode          string `json:"Vial barcode"`
	Status           string `json:"Status"`
	Location         string `json:"Location"`
	ContainerBarcode string `json:"Container barcode"`
	ContainerType    string `json:"Container type"`
	Project          struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"project"`
}

type locationEnvelope struct {
	Message string `json:"message"`
	Output  struct {
		InCDD            bool      `json:"isInCDD"`
		InCorrectProject bool      `json:"isInCorrectProject"`
		CorrectStatus    bool      `json:"isCorrectStatus"`
		VialData         *wireVial `json:"vialData"`
	} `json:"output"`
}

type lastLocationEnvelope struct {
	Message string `json:"message"`
	Output  struct {
		LastLocation     []any  `json:"last location"`
		ContainerType    string `json:"container type"`
		ContainerBarcode string `json:"container barcode"`
	} `json:"output"`
}

type wireSubmitVial struct {
	Barcode      string `json:"barcode"`
	Status       string `json:"status"`
	PostResponse struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"post response"`
}

type submitEnvelope struct {
	Message string `json:"message"`
	Output  struct {
		Success     bool             `json:"success"`
		FailedVials []wireSubmitVial `json:"failedVials"`
	} `json:"output"`
}
