package params

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/anyswap/Stellar-SDK/strkey"
)

// CheckConfig check config
func (c *LedgerConfig) CheckConfig() (err error) {
	if c.NetworkPassphrase == "" {
		return errors.New("must config 'NetworkPassphrase'")
	}
	if err = checkURL("HorizonURL", c.HorizonURL); err != nil {
		return err
	}
	if err = checkURL("RPCURL", c.RPCURL); err != nil {
		return err
	}
	if c.WebAuth != nil {
		if err = c.WebAuth.CheckConfig(); err != nil {
			return err
		}
	}
	if c.ContractAuth != nil {
		if err = c.ContractAuth.CheckConfig(); err != nil {
			return err
		}
	}
	return nil
}

// CheckConfig check web auth config
func (c *WebAuthConfig) CheckConfig() error {
	if c.AuthEndpoint == "" {
		return errors.New("must config 'WebAuth.AuthEndpoint'")
	}
	if err := checkURL("WebAuth.AuthEndpoint", c.AuthEndpoint); err != nil {
		return err
	}
	if !strkey.IsValid(strkey.VersionByteAccountID, c.ServerSigningKey) {
		return fmt.Errorf("wrong 'WebAuth.ServerSigningKey' %q", c.ServerSigningKey)
	}
	if c.HomeDomain == "" {
		return errors.New("must config 'WebAuth.HomeDomain'")
	}
	return checkClientDomain("WebAuth", c.ClientDomain, c.ClientDomainAccount)
}

// CheckConfig check contract auth config
func (c *ContractAuthConfig) CheckConfig() error {
	if c.AuthEndpoint == "" {
		return errors.New("must config 'ContractAuth.AuthEndpoint'")
	}
	if err := checkURL("ContractAuth.AuthEndpoint", c.AuthEndpoint); err != nil {
		return err
	}
	if !strkey.IsValid(strkey.VersionByteContract, c.WebAuthContractID) {
		return fmt.Errorf("wrong 'ContractAuth.WebAuthContractID' %q", c.WebAuthContractID)
	}
	if !strkey.IsValid(strkey.VersionByteAccountID, c.ServerSigningKey) {
		return fmt.Errorf("wrong 'ContractAuth.ServerSigningKey' %q", c.ServerSigningKey)
	}
	if c.HomeDomain == "" {
		return errors.New("must config 'ContractAuth.HomeDomain'")
	}
	return checkClientDomain("ContractAuth", c.ClientDomain, c.ClientDomainAccount)
}

func checkClientDomain(section, domain, account string) error {
	if domain == "" {
		return nil
	}
	if !strkey.IsValid(strkey.VersionByteAccountID, account) {
		return fmt.Errorf("wrong '%v.ClientDomainAccount' %q", section, account)
	}
	return nil
}

// empty urls are allowed
func checkURL(name, value string) error {
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("wrong '%v' %q", name, value)
	}
	return nil
}
