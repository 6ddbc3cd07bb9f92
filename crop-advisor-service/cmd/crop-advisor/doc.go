/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package main

//	@title			Crop Advisor APIs
//	@version		v3

// @BasePath	/
// @host		localhost:5000

//go:generate swag init --parseInternal=true --dir=./,../../internal/router,../../pkg --generalInfo=doc.go --pd=true --ot=json --output=../../res/swagger/
