package entity

// DeploymentResult is produced once per successful contract-account
// deployment. Immutable after creation.
type DeploymentResult struct {
	TransactionHash string `json:"transactionHash"`
	ContractAddress string `json:"contractAddress"`
}

// UserContractStatus mirrors the backend's per-wallet deployment record.
// The gateway only proxies it; the backend owns it.
type UserContractStatus struct {
	WalletID           string `json:"wallet_id"`
	IsContractDeployed bool   `json:"is_contract_deployed"`
	ContractAddress    string `json:"contract_address,omitempty"`
}

// DeployPayload is the static deployment request built from configuration.
type DeployPayload struct {
	ClassHash           string   `json:"classHash" yaml:"classHash"`
	Salt                string   `json:"salt,omitempty" yaml:"salt,omitempty"`
	ConstructorCalldata []string `json:"constructorCalldata,omitempty" yaml:"constructorCalldata,omitempty"`
	UniqueSalt          bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
}
