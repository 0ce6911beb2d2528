package rp2040

import "errors"

var (
	// ErrPLLLock is returned when a PLL never reports lock.
	ErrPLLLock = errors.New("rp2040: PLL did not lock")
	// ErrPLLConfig is returned for divider settings the PLL cannot produce.
	ErrPLLConfig = errors.New("rp2040: PLL configuration out of range")
)

// PLLConfig selects a PLL's reference divider, VCO frequency and the two
// post dividers. The output is VCOFreq / (PostDiv1 * PostDiv2).
type PLLConfig struct {
	RefDiv   uint32
	VCOFreq  uint32
	PostDiv1 uint32
	PostDiv2 uint32
}

// Output returns the frequency the PLL produces.
func (c PLLConfig) Output() uint32 {
	if c.PostDiv1 == 0 || c.PostDiv2 == 0 {
		return 0
	}
	return c.VCOFreq / (c.PostDiv1 * c.PostDiv2)
}

// fbdiv validates c against a reference of xoscFreq Hz and returns the
// feedback divider.
func (c PLLConfig) fbdiv(xoscFreq uint32) (uint32, error) {
	if c.RefDiv == 0 || c.RefDiv > pllRefDivMaximum {
		return 0, ErrPLLConfig
	}
	ref := xoscFreq / c.RefDiv
	if ref < pllRefMin {
		return 0, ErrPLLConfig
	}
	if c.VCOFreq < pllVCOMin || c.VCOFreq > pllVCOMax || c.VCOFreq%ref != 0 {
		return 0, ErrPLLConfig
	}
	fbdiv := c.VCOFreq / ref
	if fbdiv < pllFBDivMin || fbdiv > pllFBDivMax {
		return 0, ErrPLLConfig
	}
	if c.PostDiv1 < 1 || c.PostDiv1 > pllPostDivMax || c.PostDiv2 < 1 || c.PostDiv2 > pllPostDivMax {
		return 0, ErrPLLConfig
	}
	return fbdiv, nil
}

// configurePLL resets the PLL, programs it, waits for lock and turns on
// the post dividers.
func configurePLL(pll *PLLRegs, resets *ResetsRegs, resetBit uint32, c PLLConfig, xoscFreq uint32, budget int) error {
	fbdiv, err := c.fbdiv(xoscFreq)
	if err != nil {
		return err
	}

	if err := resets.Cycle(resetBit, budget); err != nil {
		return err
	}

	pll.CS.ReplaceBits(c.RefDiv, pllCSRefDivMask, 0)
	pll.FBDivInt.Set(fbdiv)

	// Power up the VCO and main power, leaving post dividers off.
	pll.Pwr.ClearBits(pllPwrPD | pllPwrVCOPD)

	locked := false
	for i := 0; i < budget; i++ {
		if pll.CS.HasBits(pllCSLock) {
			locked = true
			break
		}
	}
	if !locked {
		return ErrPLLLock
	}

	pll.Prim.Set(c.PostDiv1<<pllPrimPostDiv1 | c.PostDiv2<<pllPrimPostDiv2)
	pll.Pwr.ClearBits(pllPwrPostDivPD)
	return nil
}
