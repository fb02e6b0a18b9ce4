package chain

import "fmt"

// ChainInvalidError reports that the chain failed self-validation before an
// append. The attempted append is rejected; committed state is untouched.
type ChainInvalidError struct {
	Invalid []Block
}

func (e *ChainInvalidError) Error() string {
	return fmt.Sprintf("chain failed validation: %d invalid block(s)", len(e.Invalid))
}
