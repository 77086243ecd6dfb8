package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"

	"github.com/glowbridge/glowbridge/provisioning"
)

var otaCmd = &cobra.Command{
	Use:   "ota",
	Short: "Firmware image operations",
}

var otaPushCmd = &cobra.Command{
	Use:   "push <image>",
	Short: "Upload a firmware image to the device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close() // nolint: errcheck

		info, err := file.Stat()
		if err != nil {
			return err
		}

		digest, err := fileDigest(file)
		if err != nil {
			return err
		}

		if _, err = file.Seek(0, io.SeekStart); err != nil {
			return err
		}

		progress := mpb.New(mpb.WithWidth(64))
		bar := progress.AddBar(info.Size(),
			mpb.PrependDecorators(
				decor.Name(filepath.Base(args[0])),
				decor.CountersKibiByte(" % .1f / % .1f"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)

		body := bar.ProxyReader(file)

		req, err := http.NewRequest(http.MethodPost, addr+"/api/v1/ota", body)
		if err != nil {
			return err
		}
		req.ContentLength = info.Size()
		req.Header.Set("Content-Type", "application/octet-stream")
		req.Header.Set(provisioning.DigestHeader, "sha256:"+digest)
		req.Header.Set(provisioning.NameHeader, filepath.Base(args[0]))

		resp, err := httpClient.Do(req)
		progress.Wait()
		if err != nil {
			return err
		}
		defer resp.Body.Close() // nolint: errcheck

		if resp.StatusCode != 200 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return errors.Errorf("device rejected image: %s: %s", resp.Status, raw)
		}

		fmt.Printf("image staged, sha256 %s, restart the device to apply\n", digest)

		return nil
	},
}

func fileDigest(r io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

func init() {
	otaCmd.AddCommand(otaPushCmd)
}
