package system

import (
	"math"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// gconfPackage is the name the rent parameters are stored under.
const gconfPackage = "system"

// DefaultConfiguration returns the rent parameters used when none were set
// in genesis.
func DefaultConfiguration() Configuration {
	return Configuration{
		AccountOverhead:     128,
		LamportsPerByteYear: 3480,
		ExemptionYears:      2,
	}
}

// Validate ensures the rent parameters are usable.
func (c *Configuration) Validate() error {
	if c.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrInvalidArgument, "lamports per byte year must be positive")
	}
	if c.ExemptionYears == 0 {
		return errors.Wrap(errors.ErrInvalidArgument, "exemption years must be positive")
	}
	return nil
}

// loadConfiguration returns the rent parameters stored on chain, or the
// defaults if none were ever saved.
func loadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, gconfPackage, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		conf = DefaultConfiguration()
		return &conf, nil
	default:
		return nil, errors.Wrap(err, "load rent configuration")
	}
}

// MinimumBalance returns the lamports an account holding size bytes of data
// needs to be rent exempt.
//
//	(AccountOverhead + size) * LamportsPerByteYear * ExemptionYears
func MinimumBalance(db gconf.ReadStore, size uint64) (uint64, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return 0, err
	}
	return conf.MinimumBalance(size)
}

// MinimumBalance computes the rent exempt balance for these parameters.
func (c *Configuration) MinimumBalance(size uint64) (uint64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	bytes := c.AccountOverhead + size
	if bytes < size {
		return 0, errors.Wrap(errors.ErrOverflow, "account size")
	}
	if bytes > math.MaxUint64/c.LamportsPerByteYear {
		return 0, errors.Wrap(errors.ErrOverflow, "rent per year")
	}
	perYear := bytes * c.LamportsPerByteYear
	if perYear > math.MaxUint64/c.ExemptionYears {
		return 0, errors.Wrap(errors.ErrOverflow, "rent")
	}
	return perYear * c.ExemptionYears, nil
}
