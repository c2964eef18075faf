// This file is part of Syncore.
//
// Syncore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Syncore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Syncore.  If not, see <https://www.gnu.org/licenses/>.

// Package registry is the directory of running emulations. Every other part
// of the application resolves "the emulation for this window" through the
// registry rather than holding the emulation itself.
//
// Dependents bind to an emulation with Bind() and are given a Ref. The Ref
// is a relation, not an owner: it is resolved on demand with Lookup() (or its
// Emulation() method) and resolves to nothing once the emulation has been
// removed. Removal sends NotifyEmulationRemoved to every bound dependent
// before the emulation is destroyed.
//
// The registry also owns the menu bar suppression counter. Suppression is a
// count and not a flag so that nested full screen contexts can each request
// suppression independently.
package registry
