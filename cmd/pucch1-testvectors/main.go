package main

/*------------------------------------------------------------------
 *
 * Purpose:	Write PUCCH Format 1 detector test vectors.
 *
 *---------------------------------------------------------------*/

import (
	nrpucch "github.com/doismellburning/nrpucch/src"
)

func main() {
	nrpucch.TestVectorMain()
}
