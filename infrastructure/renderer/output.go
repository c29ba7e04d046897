// Package renderer contém a infraestrutura comum aos renderizadores de relatório
package renderer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// FileMode é a permissão final dos relatórios gravados
const FileMode os.FileMode = 0o644

// WriteFile grava o conteúdo em um arquivo temporário no mesmo diretório e o
// renomeia para o destino, para que o destino nunca fique com um arquivo parcial.
func WriteFile(fs afero.Fs, destination string, data []byte) (err error) {
	dir := filepath.Dir(destination)

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(destination)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "creating temporary file in %s", dir)
	}

	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", tmpName)
	}

	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmpName)
	}

	if err = fs.Chmod(tmpName, FileMode); err != nil {
		return errors.Wrapf(err, "setting permissions on %s", tmpName)
	}

	if err = fs.Rename(tmpName, destination); err != nil {
		return errors.Wrapf(err, "moving report to %s", destination)
	}

	return nil
}
