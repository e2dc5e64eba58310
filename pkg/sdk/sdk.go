// Package sdk is an HTTP client for the flotilla master API.
package sdk

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

const CTJSON string = "application/json"

type SDK interface {
	// StartPass submits a training pass for execution.
	//
	// example:
	//  req := sdk.PassRequest{
	//    Config: cfg,
	//  }
	//  pass, _ := sdk.StartPass(req)
	//  fmt.Println(pass)
	StartPass(req PassRequest) (Pass, error)

	// GetPass gets a training pass by id.
	//
	// example:
	//  pass, _ := sdk.GetPass("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	//  fmt.Println(pass)
	GetPass(id string) (Pass, error)

	// ListPasses lists training passes.
	//
	// example:
	//  passPage, _ := sdk.ListPasses(0, 10)
	//  fmt.Println(passPage)
	ListPasses(offset uint64, limit uint64) (PassPage, error)
}

type flotillaSDK struct {
	masterURL string
	client    *http.Client
}

type Config struct {
	MasterURL       string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &flotillaSDK{
		masterURL: cfg.MasterURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *flotillaSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		return []byte{}, fmt.Errorf("unexpected response code: %d", resp.StatusCode)
	}

	return body, nil
}
