package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ERIC-757875/TutorHub/internal/service"
)

var hashSecretCmd = &cobra.Command{
	Use:   "hash-secret <secret>",
	Short: "生成访问密码的 bcrypt 哈希，填入 gate.secret_hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := service.HashSecret(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
