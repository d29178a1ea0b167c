package main

/*------------------------------------------------------------------
 *
 * Purpose:	PUCCH Format 1 detection and false alarm performance.
 *
 *---------------------------------------------------------------*/

import (
	nrpucch "github.com/doismellburning/nrpucch/src"
)

func main() {
	nrpucch.SimulatorMain()
}
