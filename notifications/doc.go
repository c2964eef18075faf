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

// Package notifications allows the core components to tell dependent parts
// of the application about events they did not initiate. For example, a
// window is told that the emulation it is presenting has been removed from
// the registry and that it should stop issuing ticks and input.
//
// Notifications are sometimes passed on to the user interface to indicate
// the event that has happened. For some notifications however it is
// appropriate for the receiver to deal with the notification invisibly.
package notifications
