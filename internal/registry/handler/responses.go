package handler

import "scad/pkg/domain"

type RegisterResponse struct {
	Owner     domain.Address `json:"owner"`
	Kind      string         `json:"kind"`
	IsCompany bool           `json:"is_company"`
}

type StatusResponse struct {
	Address    domain.Address `json:"address"`
	Registered bool           `json:"registered"`
}
