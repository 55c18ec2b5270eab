package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed immigration_services.json
var servicesJSON []byte

// Catalog : каталог иммиграционных услуг для мастера подачи заявки
type Catalog struct {
	ImmigrationServices map[string]Category `json:"immigration_services"`
}

type Category struct {
	Label    string    `json:"label"`
	Services []Service `json:"services"`
}

type Service struct {
	CaseType        string       `json:"case_type"`
	AttorneyFeesUSD AttorneyFees `json:"attorney_fees_usd"`
}

type AttorneyFees struct {
	StartingFrom              int `json:"starting_from,omitempty"`
	FlatFee                   int `json:"flat_fee,omitempty"`
	HourlyRate                int `json:"hourly_rate,omitempty"`
	AdditionalFamilyMemberFee int `json:"additional_family_member_fee,omitempty"`
}

func Load() (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(servicesJSON, &c); err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога услуг: %w", err)
	}
	return &c, nil
}

// FindCaseType проверяет, что тип дела существует в каталоге
func (c *Catalog) FindCaseType(caseType string) (*Service, bool) {
	for _, category := range c.ImmigrationServices {
		for i := range category.Services {
			if category.Services[i].CaseType == caseType {
				return &category.Services[i], true
			}
		}
	}
	return nil, false
}
