package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/zostay/go-mime-index/addrparse"
	"github.com/zostay/go-mime-index/charset"
	"github.com/zostay/go-mime-index/config"
	"github.com/zostay/go-mime-index/cursor"
	"github.com/zostay/go-mime-index/digest"
	"github.com/zostay/go-mime-index/mimebody"
	"github.com/zostay/go-mime-index/validate"
)

// loadMessage reads path, runs it through validate.CopyAndValidate, and
// parses the result, returning the parsed Body tree alongside the
// (possibly binary-recoded, and so possibly larger than the file) buffer
// it was parsed from.
func loadMessage(path string) (*mimebody.Body, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	cfg := config.Default()

	var validated bytes.Buffer
	if _, err := validate.CopyAndValidate(&validated, f, info.Size(), cfg); err != nil {
		return nil, nil, fmt.Errorf("validating %s: %w", path, err)
	}

	cur := cursor.Writable(validated.Bytes())
	deps := mimebody.Deps{
		AddressParser: addrparse.Default(),
		Digest:        digest.Default(cfg.GUIDMode),
	}

	body, err := mimebody.Parse(cur, cfg, deps)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return body, cur.Bytes(), nil
}

func defaultCharset() charset.Service { return charset.Default() }
