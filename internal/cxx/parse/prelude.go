// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"context"
	"go/token"
	"log/slog"
	"sync"
)

// prelude declares the Qt string classes as seen by Qt 6 user code.
const prelude = `
class QByteArray {
public:
    QByteArray();
    QByteArray(const char *data, qsizetype size = -1);
    QByteArray(qsizetype size, char c);
    QByteArray(const QByteArray &other);
};

class QLatin1String {
public:
    QLatin1String();
    explicit QLatin1String(std::nullptr_t);
    explicit QLatin1String(const char *s);
    QLatin1String(const char *s, qsizetype sz);
    explicit QLatin1String(const QByteArray &s);
};

class QChar {
public:
    QChar();
    QChar(char16_t ch);
    QChar(char ch);
};

class QStringView {
public:
    QStringView();
    QStringView(std::nullptr_t);
    QStringView(const char16_t *str);
    QStringView(const char16_t *str, qsizetype len);
    QStringView(const QString &str);
};

class QString {
public:
    QString();
    QString(QChar c);
    QString(qsizetype size, QChar c);
    QString(const QChar *unicode, qsizetype size = -1);
    QString(QLatin1String latin1);
    QString(const char *str);
    QString(const QByteArray &a);
    QString(const QString &other);
};
`

// preludeClasses returns the constructors declared by the prelude.
// The result is shared and must be cloned before modification.
var preludeClasses = sync.OnceValue(func() classTable {
	ctx := context.Background()
	src := []byte(prelude)

	classes := make(classTable)

	root, closeTree, err := parseTree(ctx, src)
	if err != nil {
		slog.Error("Can't parse Qt prelude", slog.Any("error", err))

		return classes
	}
	defer closeTree()

	fset := token.NewFileSet()
	file := fset.AddFile("<prelude>", -1, len(src))

	newBuilder(ctx, file, src, classes).declare(root)

	return classes
})
